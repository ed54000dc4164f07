package services

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestReduceLotteryStateLoaded(t *testing.T) {
	manager := common.HexToAddress("0xA")
	state := LotteryState{Message: "keep me"}

	next := reduceLotteryState(state, lotteryAction{
		kind:         actionLoaded,
		manager:      manager,
		participants: []common.Address{},
		balance:      big.NewInt(0),
	})

	assert.True(t, next.Loaded)
	assert.Equal(t, manager, next.Manager)
	assert.Empty(t, next.Participants)
	assert.Equal(t, "keep me", next.Message)
	assert.False(t, state.Loaded, "input state must not change")
}

func TestReduceLotteryStateActionLifecycle(t *testing.T) {
	state := LotteryState{}

	state = reduceLotteryState(state, lotteryAction{kind: actionBegin, entryValue: "0.02", setEntryValue: true})
	assert.True(t, state.Busy)
	assert.Equal(t, "0.02", state.EntryValue)
	assert.Equal(t, StatusIdle, state.Status)

	state = reduceLotteryState(state, lotteryAction{kind: actionPending, message: MsgTransactionPending})
	assert.True(t, state.Busy)
	assert.Equal(t, StatusPending, state.Status)

	state = reduceLotteryState(state, lotteryAction{kind: actionSucceed, message: MsgEntered})
	assert.False(t, state.Busy)
	assert.Equal(t, StatusSuccess, state.Status)
	assert.Equal(t, MsgEntered, state.Message)

	state = reduceLotteryState(state, lotteryAction{kind: actionBegin})
	assert.Equal(t, "0.02", state.EntryValue, "begin without entry value keeps the form value")
	state = reduceLotteryState(state, lotteryAction{kind: actionFail, message: "Transaction failed: boom"})
	assert.False(t, state.Busy)
	assert.Equal(t, StatusError, state.Status)
}

func TestReduceLotteryStateLoadFailedKeepsValues(t *testing.T) {
	state := LotteryState{
		Manager:      common.HexToAddress("0xA"),
		Participants: []common.Address{common.HexToAddress("0xB")},
		Balance:      big.NewInt(5),
		Loaded:       true,
	}

	next := reduceLotteryState(state, lotteryAction{kind: actionLoadFailed, message: "Could not load lottery state: timeout"})
	assert.Equal(t, state.Manager, next.Manager)
	assert.Len(t, next.Participants, 1)
	assert.Equal(t, int64(5), next.Balance.Int64())
	assert.Equal(t, "Could not load lottery state: timeout", next.LoadError)
	assert.Equal(t, StatusError, next.Status)
}

func TestReduceLotteryStateLoadRecovers(t *testing.T) {
	loadErr := "Could not load lottery state: timeout"
	state := reduceLotteryState(LotteryState{}, lotteryAction{kind: actionLoadFailed, message: loadErr})
	assert.Equal(t, loadErr, state.Message)
	assert.Equal(t, StatusError, state.Status)

	state = reduceLotteryState(state, lotteryAction{
		kind:         actionLoaded,
		manager:      common.HexToAddress("0xA"),
		participants: []common.Address{},
		balance:      big.NewInt(0),
	})
	assert.True(t, state.Loaded)
	assert.Empty(t, state.LoadError)
	assert.Empty(t, state.Message)
	assert.Equal(t, StatusIdle, state.Status)
}

func TestReduceLotteryStateLoadedKeepsActionResult(t *testing.T) {
	state := LotteryState{
		LoadError: "Could not load lottery state: timeout",
		Message:   MsgEntered,
		Status:    StatusSuccess,
	}

	state = reduceLotteryState(state, lotteryAction{kind: actionLoaded, participants: []common.Address{}, balance: big.NewInt(0)})
	assert.Empty(t, state.LoadError)
	assert.Equal(t, MsgEntered, state.Message)
	assert.Equal(t, StatusSuccess, state.Status)
}

func TestReduceLotteryStateLoadFailedWhileBusy(t *testing.T) {
	state := LotteryState{Busy: true, Message: MsgTransactionPending, Status: StatusPending}

	state = reduceLotteryState(state, lotteryAction{kind: actionLoadFailed, message: "Could not load lottery state: node down"})
	assert.True(t, state.Busy)
	assert.Equal(t, "Could not load lottery state: node down", state.LoadError)
	assert.Equal(t, MsgTransactionPending, state.Message)
	assert.Equal(t, StatusPending, state.Status)
}
