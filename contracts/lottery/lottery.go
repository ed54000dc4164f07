// Package lottery is a typed binding for the deployed lottery contract.
package lottery

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/lottery/wallet"
)

var ErrTransactionReverted = errors.New("transaction reverted")

// Backend is the read side of the node api used by the binding
type Backend interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	bind.DeployBackend
}

// Lottery is a handle to one deployed lottery contract
type Lottery struct {
	address common.Address
	abi     abi.ABI
	backend Backend
	wallet  wallet.Wallet
	logger  logrus.FieldLogger
}

func NewLottery(address common.Address, backend Backend, w wallet.Wallet, logger logrus.FieldLogger) (*Lottery, error) {
	parsed, err := abi.JSON(strings.NewReader(LotteryABI))
	if err != nil {
		return nil, fmt.Errorf("could not parse lottery abi: %w", err)
	}

	return &Lottery{
		address: address,
		abi:     parsed,
		backend: backend,
		wallet:  w,
		logger:  logger.WithField("contract", address.Hex()),
	}, nil
}

func (l *Lottery) Address() common.Address {
	return l.address
}

func (l *Lottery) Manager(ctx context.Context) (common.Address, error) {
	var manager common.Address
	err := l.call(ctx, &manager, "manager")
	return manager, err
}

func (l *Lottery) GetParticipants(ctx context.Context) ([]common.Address, error) {
	var participants []common.Address
	err := l.call(ctx, &participants, "getParticipants")
	return participants, err
}

func (l *Lottery) LastWinner(ctx context.Context) (common.Address, error) {
	var winner common.Address
	err := l.call(ctx, &winner, "lastWinner")
	return winner, err
}

// Enter sends the entry transaction with value attached and waits until it is mined
func (l *Lottery) Enter(ctx context.Context, from common.Address, value *big.Int) (*types.Receipt, error) {
	return l.transact(ctx, from, value, "enter")
}

// SelectWinner sends the winner selection transaction and waits until it is mined
func (l *Lottery) SelectWinner(ctx context.Context, from common.Address) (*types.Receipt, error) {
	return l.transact(ctx, from, nil, "selectWinner")
}

func (l *Lottery) call(ctx context.Context, result interface{}, method string) error {
	input, err := l.abi.Pack(method)
	if err != nil {
		return fmt.Errorf("could not pack %v call: %w", method, err)
	}

	output, err := l.backend.CallContract(ctx, ethereum.CallMsg{To: &l.address, Data: input}, nil)
	if err != nil {
		return fmt.Errorf("%v call failed: %w", method, err)
	}
	if len(output) == 0 {
		return fmt.Errorf("%v call failed: %w", method, bind.ErrNoCode)
	}

	values, err := l.abi.Unpack(method, output)
	if err != nil {
		return fmt.Errorf("could not unpack %v result: %w", method, err)
	}
	if len(values) != 1 {
		return fmt.Errorf("unexpected %v result count: %v", method, len(values))
	}

	return l.abi.Methods[method].Outputs.Copy(result, values)
}

func (l *Lottery) transact(ctx context.Context, from common.Address, value *big.Int, method string) (*types.Receipt, error) {
	input, err := l.abi.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("could not pack %v transaction: %w", method, err)
	}

	tx, err := l.wallet.SendTransaction(ctx, &wallet.TxRequest{
		From:  from,
		To:    &l.address,
		Value: value,
		Data:  input,
	})
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"method": method,
		"hash":   tx.Hash().Hex(),
	}).Debugf("waiting for transaction")

	receipt, err := bind.WaitMined(ctx, l.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("waiting for %v transaction %v failed: %w", method, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%v transaction %v: %w", method, tx.Hash().Hex(), ErrTransactionReverted)
	}

	l.logger.WithFields(logrus.Fields{
		"method": method,
		"hash":   tx.Hash().Hex(),
		"block":  receipt.BlockNumber,
	}).Infof("transaction mined")

	return receipt, nil
}
