package execution

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"
)

type ClientConfig struct {
	URL     string
	Name    string
	Headers map[string]string
}

// Client is a connection to a single execution node rpc endpoint
type Client struct {
	config    *ClientConfig
	logger    logrus.FieldLogger
	mutex     sync.Mutex
	rpcClient *rpc.Client
	ethClient *ethclient.Client
	chainID   *big.Int
}

// NewClient is used to create a new execution client
func NewClient(config *ClientConfig, logger logrus.FieldLogger) *Client {
	if config.Name == "" {
		config.Name = "default"
	}

	return &Client{
		config: config,
		logger: logger.WithField("client", config.Name),
	}
}

// Initialize dials the endpoint and loads the chain id
func (client *Client) Initialize(ctx context.Context) error {
	client.mutex.Lock()
	defer client.mutex.Unlock()

	if client.ethClient != nil {
		return nil
	}

	rpcClient, err := rpc.DialContext(ctx, client.config.URL)
	if err != nil {
		return fmt.Errorf("could not dial execution endpoint: %w", err)
	}

	for hKey, hVal := range client.config.Headers {
		rpcClient.SetHeader(hKey, hVal)
	}

	ethClient := ethclient.NewClient(rpcClient)

	chainID, err := ethClient.ChainID(ctx)
	if err != nil {
		rpcClient.Close()
		return fmt.Errorf("could not load chain id: %w", err)
	}

	client.rpcClient = rpcClient
	client.ethClient = ethClient
	client.chainID = chainID

	var version string
	if err := rpcClient.CallContext(ctx, &version, "web3_clientVersion"); err != nil {
		client.logger.Debugf("could not get client version: %v", err)
	}

	client.logger.WithFields(logrus.Fields{
		"chainId": chainID.String(),
		"version": version,
	}).Infof("connected to execution node")

	return nil
}

func (client *Client) GetName() string {
	return client.config.Name
}

func (client *Client) GetRPCClient() *rpc.Client {
	return client.rpcClient
}

func (client *Client) GetEthClient() *ethclient.Client {
	return client.ethClient
}

func (client *Client) GetChainID() *big.Int {
	return client.chainID
}

func (client *Client) Close() {
	client.mutex.Lock()
	defer client.mutex.Unlock()

	if client.rpcClient != nil {
		client.rpcClient.Close()
		client.rpcClient = nil
		client.ethClient = nil
	}
}
