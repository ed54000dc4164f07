package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ethpandaops/lottery/utils"
)

const (
	MsgTransactionPending = "Waiting on transaction to complete... Please be patient."
	MsgEntered            = "Success! You have been entered into the lottery!"
	MsgNotManager         = "You are not the manager! Only the manager can select a winner."
	MsgWinnerPicked       = "Success! A winner has been picked! The winning address is: %v"
	MsgMinimumEntry       = "You need to at least %v ETH to enter!"
	MsgAmountPrecision    = "The amount has more than 18 decimal places!"
	MsgTransactionFailed  = "Transaction failed: %v"
	MsgLoadFailed         = "Could not load lottery state: %v"
)

type ErrorKind uint8

const (
	ErrorKindValidation ErrorKind = iota + 1
	ErrorKindAuthorization
	ErrorKindTransaction
	ErrorKindLoad
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindValidation:
		return "validation"
	case ErrorKindAuthorization:
		return "authorization"
	case ErrorKindTransaction:
		return "transaction"
	case ErrorKindLoad:
		return "load"
	default:
		return "unknown"
	}
}

var (
	ErrActionInFlight = errors.New("another lottery action is in flight")
	ErrEntryTooLow    = errors.New("entry amount below minimum")
	ErrNotManager     = errors.New("active account is not the lottery manager")
)

// ActionError is returned by the lottery actions and tells which part of the action failed
type ActionError struct {
	Kind ErrorKind
	Err  error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%v error: %v", e.Kind, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// LotteryContract is the contract binding used by the controller
type LotteryContract interface {
	Address() common.Address
	Manager(ctx context.Context) (common.Address, error)
	GetParticipants(ctx context.Context) ([]common.Address, error)
	LastWinner(ctx context.Context) (common.Address, error)
	Enter(ctx context.Context, from common.Address, value *big.Int) (*types.Receipt, error)
	SelectWinner(ctx context.Context, from common.Address) (*types.Receipt, error)
}

// AccountProvider resolves the signer, reads balances and converts entry amounts
type AccountProvider interface {
	ActiveAccount(ctx context.Context) (common.Address, error)
	GetBalance(ctx context.Context, address common.Address) (*big.Int, error)
	ToWei(ether string) (*big.Int, error)
}

type LotteryControllerConfig struct {
	MinimumEntry       string
	TransactionTimeout time.Duration
}

// LotteryController owns the lottery ui state and runs the user actions against the contract
type LotteryController struct {
	contract     LotteryContract
	provider     AccountProvider
	logger       logrus.FieldLogger
	minimumEntry decimal.Decimal
	txTimeout    time.Duration

	stateMutex      sync.Mutex
	state           LotteryState
	stateDispatcher utils.Dispatcher[LotteryState]
}

var (
	lotteryTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lottery_transactions_total",
		Help: "Number of lottery actions by action and result",
	}, []string{"action", "result"})
	lotteryParticipants = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lottery_participants",
		Help: "Number of participants at the last state load",
	})
	lotteryPotEther = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lottery_pot_ether",
		Help: "Pot balance in ether at the last state load",
	})
	lotteryStateSubscribers = promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "lottery_state_subscribers",
		Help: "Number of live state feed subscribers",
	}, func() float64 {
		if GlobalLotteryController == nil {
			return 0
		}
		return float64(GlobalLotteryController.SubscriberCount())
	})
)

var GlobalLotteryController *LotteryController

func NewLotteryController(contract LotteryContract, provider AccountProvider, config *LotteryControllerConfig, logger logrus.FieldLogger) (*LotteryController, error) {
	minimumEntry, err := utils.ParseEther(config.MinimumEntry)
	if err != nil {
		return nil, fmt.Errorf("invalid minimum entry %q: %w", config.MinimumEntry, err)
	}

	return &LotteryController{
		contract:     contract,
		provider:     provider,
		logger:       logger.WithField("module", "lottery"),
		minimumEntry: minimumEntry,
		txTimeout:    config.TransactionTimeout,
	}, nil
}

// State returns a snapshot of the current state
func (lc *LotteryController) State() LotteryState {
	lc.stateMutex.Lock()
	defer lc.stateMutex.Unlock()
	return lc.state
}

func (lc *LotteryController) ContractAddress() common.Address {
	return lc.contract.Address()
}

func (lc *LotteryController) MinimumEntry() string {
	return lc.minimumEntry.String()
}

// Subscribe registers a state listener that receives a snapshot after every change.
// Snapshots are dropped while the buffer is full.
func (lc *LotteryController) Subscribe(bufferSize int) *utils.Subscription[LotteryState] {
	return lc.stateDispatcher.Subscribe(bufferSize, false)
}

// SubscriberCount returns the number of registered state listeners
func (lc *LotteryController) SubscriberCount() int {
	return lc.stateDispatcher.SubscriptionCount()
}

func (lc *LotteryController) dispatch(action lotteryAction) {
	lc.stateMutex.Lock()
	defer lc.stateMutex.Unlock()
	lc.applyAction(action)
}

// applyAction expects the state mutex to be held
func (lc *LotteryController) applyAction(action lotteryAction) {
	lc.state = reduceLotteryState(lc.state, action)
	lc.stateDispatcher.Fire(lc.state)
}

// SetEntryValue stores the amount the user typed into the entry form
func (lc *LotteryController) SetEntryValue(value string) {
	lc.dispatch(lotteryAction{kind: actionSetEntryValue, entryValue: value})
}

// Load reads manager, participants and pot balance and applies them as one update
func (lc *LotteryController) Load(ctx context.Context) error {
	var (
		manager      common.Address
		participants []common.Address
		balance      *big.Int
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		manager, err = lc.contract.Manager(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		participants, err = lc.contract.GetParticipants(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		balance, err = lc.provider.GetBalance(groupCtx, lc.contract.Address())
		return err
	})

	if err := group.Wait(); err != nil {
		lc.logger.WithError(err).Warnf("error loading lottery state")
		lc.dispatch(lotteryAction{kind: actionLoadFailed, message: fmt.Sprintf(MsgLoadFailed, err)})
		return &ActionError{Kind: ErrorKindLoad, Err: err}
	}

	if participants == nil {
		participants = []common.Address{}
	}

	lc.dispatch(lotteryAction{
		kind:         actionLoaded,
		manager:      manager,
		participants: participants,
		balance:      balance,
	})

	lotteryParticipants.Set(float64(len(participants)))
	lotteryPotEther.Set(decimal.NewFromBigInt(balance, -utils.EtherDecimals).InexactFloat64())

	lc.logger.WithFields(logrus.Fields{
		"manager":      manager.Hex(),
		"participants": len(participants),
		"balance":      balance.String(),
	}).Debugf("loaded lottery state")

	return nil
}

// begin reserves the controller for one action
func (lc *LotteryController) begin(entryValue *string) error {
	lc.stateMutex.Lock()
	defer lc.stateMutex.Unlock()

	if lc.state.Busy {
		return ErrActionInFlight
	}

	action := lotteryAction{kind: actionBegin}
	if entryValue != nil {
		action.entryValue = *entryValue
		action.setEntryValue = true
	}
	lc.applyAction(action)
	return nil
}

// SubmitEntry validates the amount and enters the lottery with it. It returns once the transaction is mined.
func (lc *LotteryController) SubmitEntry(ctx context.Context, amountEther string) error {
	if err := lc.begin(&amountEther); err != nil {
		return err
	}
	return lc.runEntry(ctx, amountEther)
}

// SubmitEntryAsync reserves the controller and runs the entry in the background
func (lc *LotteryController) SubmitEntryAsync(ctx context.Context, amountEther string) error {
	if err := lc.begin(&amountEther); err != nil {
		return err
	}
	go lc.runAsync(ctx, "entry", func(ctx context.Context) error {
		return lc.runEntry(ctx, amountEther)
	})
	return nil
}

// SelectWinner picks a winner if the active account is the manager. It returns once the transaction is mined.
func (lc *LotteryController) SelectWinner(ctx context.Context) error {
	if err := lc.begin(nil); err != nil {
		return err
	}
	return lc.runSelectWinner(ctx)
}

// SelectWinnerAsync reserves the controller and runs the winner selection in the background
func (lc *LotteryController) SelectWinnerAsync(ctx context.Context) error {
	if err := lc.begin(nil); err != nil {
		return err
	}
	go lc.runAsync(ctx, "selectWinner", lc.runSelectWinner)
	return nil
}

func (lc *LotteryController) runAsync(ctx context.Context, name string, fn func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			lc.logger.Errorf("uncaught panic in %v action: %v", name, r)
			lc.dispatch(lotteryAction{kind: actionFail, message: fmt.Sprintf(MsgTransactionFailed, "internal error")})
		}
	}()

	if lc.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, lc.txTimeout)
		defer cancel()
	}

	if err := fn(ctx); err != nil {
		lc.logger.Debugf("%v action finished with error: %v", name, err)
	}
}

func (lc *LotteryController) runEntry(ctx context.Context, amountEther string) error {
	amount, err := utils.ParseEther(amountEther)
	if err != nil || amount.LessThan(lc.minimumEntry) {
		message := fmt.Sprintf(MsgMinimumEntry, lc.minimumEntry.String())
		if errors.Is(err, utils.ErrAmountPrecision) {
			message = MsgAmountPrecision
		}
		if err == nil {
			err = ErrEntryTooLow
		}

		lc.dispatch(lotteryAction{kind: actionReject, message: message})
		lotteryTransactions.WithLabelValues("enter", "rejected").Inc()
		return &ActionError{Kind: ErrorKindValidation, Err: err}
	}

	value, err := lc.provider.ToWei(amountEther)
	if err != nil {
		return lc.failAction("enter", err)
	}

	account, err := lc.provider.ActiveAccount(ctx)
	if err != nil {
		return lc.failAction("enter", err)
	}

	lc.dispatch(lotteryAction{kind: actionPending, message: MsgTransactionPending})

	if _, err := lc.contract.Enter(ctx, account, value); err != nil {
		return lc.failAction("enter", err)
	}

	lc.logger.WithFields(logrus.Fields{
		"account": account.Hex(),
		"value":   value.String(),
	}).Infof("entered lottery")

	lotteryTransactions.WithLabelValues("enter", "success").Inc()
	lc.dispatch(lotteryAction{kind: actionSucceed, message: MsgEntered})
	return nil
}

func (lc *LotteryController) runSelectWinner(ctx context.Context) error {
	account, err := lc.provider.ActiveAccount(ctx)
	if err != nil {
		return lc.failAction("selectWinner", err)
	}

	if account != lc.State().Manager {
		lc.dispatch(lotteryAction{kind: actionReject, message: MsgNotManager})
		lotteryTransactions.WithLabelValues("selectWinner", "rejected").Inc()
		return &ActionError{Kind: ErrorKindAuthorization, Err: ErrNotManager}
	}

	lc.dispatch(lotteryAction{kind: actionPending, message: MsgTransactionPending})

	if _, err := lc.contract.SelectWinner(ctx, account); err != nil {
		return lc.failAction("selectWinner", err)
	}

	winner, err := lc.contract.LastWinner(ctx)
	if err != nil {
		return lc.failAction("selectWinner", err)
	}

	lc.logger.WithField("winner", winner.Hex()).Infof("lottery winner picked")

	lotteryTransactions.WithLabelValues("selectWinner", "success").Inc()
	lc.dispatch(lotteryAction{kind: actionSucceed, message: fmt.Sprintf(MsgWinnerPicked, winner.Hex())})
	return nil
}

func (lc *LotteryController) failAction(action string, err error) error {
	utils.LogError(lc.logger, err, fmt.Sprintf("lottery %v action failed", action), 1)
	lotteryTransactions.WithLabelValues(action, "failed").Inc()
	lc.dispatch(lotteryAction{kind: actionFail, message: fmt.Sprintf(MsgTransactionFailed, err)})
	return &ActionError{Kind: ErrorKindTransaction, Err: err}
}
