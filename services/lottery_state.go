package services

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type StatusKind uint8

const (
	StatusIdle StatusKind = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// LotteryState is the complete ui state of the lottery page.
// Slices and big ints are never modified in place, so snapshots may share them.
type LotteryState struct {
	Manager      common.Address
	Participants []common.Address
	Balance      *big.Int // wei
	EntryValue   string
	Message      string
	Status       StatusKind
	Busy         bool
	Loaded       bool
	LoadError    string
}

type lotteryActionType uint8

const (
	actionLoaded lotteryActionType = iota
	actionLoadFailed
	actionSetEntryValue
	actionBegin
	actionReject
	actionPending
	actionSucceed
	actionFail
)

type lotteryAction struct {
	kind         lotteryActionType
	manager      common.Address
	participants []common.Address
	balance      *big.Int
	entryValue   string
	message      string

	setEntryValue bool
}

// reduceLotteryState returns the state that results from applying action to state
func reduceLotteryState(state LotteryState, action lotteryAction) LotteryState {
	switch action.kind {
	case actionLoaded:
		if state.LoadError != "" && state.Message == state.LoadError {
			// the status line still shows the previous load failure
			state.Message = ""
			state.Status = StatusIdle
		}
		state.Manager = action.manager
		state.Participants = action.participants
		state.Balance = action.balance
		state.Loaded = true
		state.LoadError = ""
	case actionLoadFailed:
		state.LoadError = action.message
		if !state.Busy {
			// the status line belongs to the running action
			state.Message = action.message
			state.Status = StatusError
		}
	case actionSetEntryValue:
		state.EntryValue = action.entryValue
	case actionBegin:
		state.Busy = true
		if action.setEntryValue {
			state.EntryValue = action.entryValue
		}
	case actionReject:
		state.Busy = false
		state.Message = action.message
		state.Status = StatusError
	case actionPending:
		state.Message = action.message
		state.Status = StatusPending
	case actionSucceed:
		state.Busy = false
		state.Message = action.message
		state.Status = StatusSuccess
	case actionFail:
		state.Busy = false
		state.Message = action.message
		state.Status = StatusError
	}
	return state
}
