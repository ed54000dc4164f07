package handlers

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/lottery/services"
	"github.com/ethpandaops/lottery/types"
	"github.com/ethpandaops/lottery/types/models"
	"github.com/ethpandaops/lottery/utils"
)

var (
	testContract = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	testManager  = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	testPlayer   = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
)

type fakeContract struct {
	mutex        sync.Mutex
	manager      common.Address
	participants []common.Address
	entries      []*big.Int
	release      chan struct{}
}

func (f *fakeContract) Address() common.Address {
	return testContract
}

func (f *fakeContract) Manager(ctx context.Context) (common.Address, error) {
	return f.manager, nil
}

func (f *fakeContract) GetParticipants(ctx context.Context) ([]common.Address, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]common.Address{}, f.participants...), nil
}

func (f *fakeContract) LastWinner(ctx context.Context) (common.Address, error) {
	return testPlayer, nil
}

func (f *fakeContract) Enter(ctx context.Context, from common.Address, value *big.Int) (*ethtypes.Receipt, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.participants = append(f.participants, from)
	f.entries = append(f.entries, value)
	return &ethtypes.Receipt{Status: ethtypes.ReceiptStatusSuccessful}, nil
}

func (f *fakeContract) SelectWinner(ctx context.Context, from common.Address) (*ethtypes.Receipt, error) {
	return &ethtypes.Receipt{Status: ethtypes.ReceiptStatusSuccessful}, nil
}

type fakeProvider struct {
	account common.Address
	balance *big.Int
}

func (f *fakeProvider) ActiveAccount(ctx context.Context) (common.Address, error) {
	return f.account, nil
}

func (f *fakeProvider) GetBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	return f.balance, nil
}

func (f *fakeProvider) ToWei(ether string) (*big.Int, error) {
	return utils.EtherToWei(ether)
}

func setupTestLottery(t *testing.T, contract *fakeContract, provider *fakeProvider) *services.LotteryController {
	t.Helper()

	cfg := &types.Config{}
	cfg.Frontend.SiteName = "Lottery"
	cfg.Frontend.RefreshInterval = 5 * time.Second
	cfg.ExecutionApi.CallTimeout = time.Second
	utils.Config = cfg

	logger, _ := test.NewNullLogger()
	controller, err := services.NewLotteryController(contract, provider, &services.LotteryControllerConfig{
		MinimumEntry:       "0.01",
		TransactionTimeout: time.Minute,
	}, logger)
	require.NoError(t, err)

	services.GlobalLotteryController = controller
	t.Cleanup(func() {
		services.GlobalLotteryController = nil
		SetActionContext(context.Background())
	})

	return controller
}

func waitIdle(t *testing.T, controller *services.LotteryController) services.LotteryState {
	t.Helper()
	require.Eventually(t, func() bool {
		return !controller.State().Busy
	}, 2*time.Second, 10*time.Millisecond)
	return controller.State()
}

func postForm(handler http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestIndexRendersLotteryState(t *testing.T) {
	contract := &fakeContract{manager: testManager, participants: []common.Address{testPlayer, testManager}}
	balance, _ := new(big.Int).SetString("1500000000000000000", 10)
	setupTestLottery(t, contract, &fakeProvider{account: testPlayer, balance: balance})

	rec := httptest.NewRecorder()
	Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<span id="participant-count">2</span>`)
	assert.Contains(t, body, `<span id="balance">1.5</span>`)
	assert.Contains(t, body, testManager.Hex())
	assert.NotContains(t, body, `http-equiv="refresh"`)
}

func TestIndexDataReturnsJSON(t *testing.T) {
	contract := &fakeContract{manager: testManager, participants: []common.Address{testPlayer}}
	controller := setupTestLottery(t, contract, &fakeProvider{account: testPlayer, balance: big.NewInt(10000000000000000)})
	require.NoError(t, controller.Load(context.Background()))

	rec := httptest.NewRecorder()
	IndexData(rec, httptest.NewRequest(http.MethodGet, "/index/data", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var data models.LotteryPageData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, testContract.Hex(), data.ContractAddress)
	assert.Equal(t, testManager.Hex(), data.Manager)
	assert.Equal(t, []string{testPlayer.Hex()}, data.Participants)
	assert.Equal(t, 1, data.ParticipantCount)
	assert.Equal(t, "10000000000000000", data.BalanceWei)
	assert.Equal(t, "0.01", data.BalanceEther)
	assert.Equal(t, "0.01", data.MinimumEntry)
	assert.Equal(t, "idle", data.Status)
	assert.True(t, data.Loaded)
	assert.False(t, data.Busy)
}

func TestEnterRedirectsAndSubmits(t *testing.T) {
	contract := &fakeContract{manager: testManager}
	controller := setupTestLottery(t, contract, &fakeProvider{account: testPlayer, balance: big.NewInt(0)})
	require.NoError(t, controller.Load(context.Background()))

	rec := postForm(Enter, "/enter", url.Values{"value": {"0.5"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	state := waitIdle(t, controller)
	assert.Equal(t, services.MsgEntered, state.Message)
	assert.Equal(t, services.StatusSuccess, state.Status)
	assert.Equal(t, "0.5", state.EntryValue)
	// participants are only updated by an explicit reload
	assert.Empty(t, state.Participants)

	contract.mutex.Lock()
	require.Len(t, contract.entries, 1)
	assert.Equal(t, "500000000000000000", contract.entries[0].String())
	contract.mutex.Unlock()

	rec = httptest.NewRecorder()
	Refresh(rec, httptest.NewRequest(http.MethodGet, "/refresh", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []common.Address{testPlayer}, controller.State().Participants)
}

func TestEnterBelowMinimum(t *testing.T) {
	contract := &fakeContract{manager: testManager}
	controller := setupTestLottery(t, contract, &fakeProvider{account: testPlayer, balance: big.NewInt(0)})

	rec := postForm(Enter, "/enter", url.Values{"value": {"0.001"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	state := waitIdle(t, controller)
	assert.Equal(t, "You need to at least 0.01 ETH to enter!", state.Message)
	assert.Equal(t, services.StatusError, state.Status)
	assert.Empty(t, contract.entries)
}

func TestSelectWinnerNotManager(t *testing.T) {
	contract := &fakeContract{manager: testManager}
	controller := setupTestLottery(t, contract, &fakeProvider{account: testPlayer, balance: big.NewInt(0)})
	require.NoError(t, controller.Load(context.Background()))

	rec := postForm(SelectWinner, "/select-winner", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	state := waitIdle(t, controller)
	assert.Equal(t, services.MsgNotManager, state.Message)
}

func TestSelectWinnerByManager(t *testing.T) {
	contract := &fakeContract{manager: testManager}
	controller := setupTestLottery(t, contract, &fakeProvider{account: testManager, balance: big.NewInt(0)})
	require.NoError(t, controller.Load(context.Background()))

	postForm(SelectWinner, "/select-winner", url.Values{})

	state := waitIdle(t, controller)
	assert.Equal(t, services.StatusSuccess, state.Status)
	assert.Contains(t, state.Message, testPlayer.Hex())
}

func TestIndexWebsocketSendsState(t *testing.T) {
	contract := &fakeContract{manager: testManager}
	controller := setupTestLottery(t, contract, &fakeProvider{account: testPlayer, balance: big.NewInt(0)})
	require.NoError(t, controller.Load(context.Background()))

	server := httptest.NewServer(http.HandlerFunc(IndexWebsocket))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	var data models.LotteryPageData
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&data))
	assert.Equal(t, testManager.Hex(), data.Manager)
	assert.Equal(t, "idle", data.Status)

	controller.SetEntryValue("0.02")
	require.NoError(t, conn.ReadJSON(&data))
	assert.Equal(t, "0.02", data.EntryValue)
}

func TestNotFound(t *testing.T) {
	setupTestLottery(t, &fakeContract{}, &fakeProvider{balance: big.NewInt(0)})

	rec := httptest.NewRecorder()
	NotFound(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not Found")
}

func TestEnterCancelledWithServerContext(t *testing.T) {
	contract := &fakeContract{manager: testManager, release: make(chan struct{})}
	controller := setupTestLottery(t, contract, &fakeProvider{account: testPlayer, balance: big.NewInt(0)})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	SetActionContext(ctx)

	rec := postForm(Enter, "/enter", url.Values{"value": {"0.02"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.Eventually(t, func() bool {
		return controller.State().Status == services.StatusPending
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	state := waitIdle(t, controller)
	assert.Equal(t, services.StatusError, state.Status)
	assert.Contains(t, state.Message, context.Canceled.Error())
	assert.Empty(t, contract.entries)
}

func TestIndexRendersEmptyLottery(t *testing.T) {
	manager := common.HexToAddress("0xA")
	setupTestLottery(t, &fakeContract{manager: manager}, &fakeProvider{account: testPlayer, balance: big.NewInt(0)})

	rec := httptest.NewRecorder()
	Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, manager.Hex())
	assert.Contains(t, body, `<span id="participant-count">0</span> people entered`)
	assert.Contains(t, body, `competing to win <span id="balance">0</span> ETH`)
}
