package ledger

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/harishkotra/onchain-chronicler/internal/logger"
)

// Client talks to the ChronicleRegistry contract over JSON-RPC.
// It is safe for concurrent use; all state is immutable after construction.
type Client struct {
	eth      *ethclient.Client
	abi      abi.ABI
	contract common.Address
	key      *ecdsa.PrivateKey
	sender   common.Address
	chainID  *big.Int
}

var (
	_ Reader = (*Client)(nil)
	_ Writer = (*Client)(nil)
)

// connects to the RPC endpoint and binds the contract address.
// privateKeyHex signs chronicle commits; it must be hex without the 0x prefix.
func NewClient(ctx context.Context, rpcURL, contractAddress, privateKeyHex string) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RPC endpoint: %w", err)
	}

	contractABI, err := parseContractABI()
	if err != nil {
		eth.Close()
		return nil, err
	}

	if !common.IsHexAddress(contractAddress) {
		eth.Close()
		return nil, fmt.Errorf("invalid contract address: %s", contractAddress)
	}

	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("failed to parse chronicler private key: %w", err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("failed to read chain id: %w", err)
	}

	return &Client{
		eth:      eth,
		abi:      contractABI,
		contract: common.HexToAddress(contractAddress),
		key:      key,
		sender:   crypto.PubkeyToAddress(key.PublicKey),
		chainID:  chainID,
	}, nil
}

// closes the underlying RPC connection
func (c *Client) Close() {
	c.eth.Close()
}

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	height, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read block height: %w", err)
	}

	return height, nil
}

func (c *Client) FilterEvents(ctx context.Context, kind EventKind, fromBlock, toBlock uint64) ([]Event, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{c.contract},
		Topics:    [][]common.Hash{{c.eventTopic(kind)}},
	}

	logs, err := c.eth.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to filter logs [%d, %d]: %w", fromBlock, toBlock, err)
	}

	events := make([]Event, 0, len(logs))

	for _, log := range logs {
		event, err := c.decodeLog(kind, log)
		if err != nil {
			// a log we cannot decode is a contract/ABI mismatch, skip it
			logger.Warn("skipping undecodable log",
				"block", log.BlockNumber,
				"index", log.Index,
				"error", err,
			)
			continue
		}

		events = append(events, event)
	}

	return events, nil
}

func (c *Client) BlockTimestamp(ctx context.Context, number uint64) (uint64, error) {
	header, err := c.eth.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return 0, fmt.Errorf("failed to read header %d: %w", number, err)
	}

	return header.Time, nil
}

func (c *Client) ChronicleExists(ctx context.Context, txHash common.Hash) (bool, error) {
	var exists bool

	if err := c.call(ctx, "chronicleExists", []any{txHash}, &exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (c *Client) Chronicle(ctx context.Context, txHash common.Hash) (Chronicle, error) {
	data, err := c.abi.Pack("getChronicle", txHash)
	if err != nil {
		return Chronicle{}, fmt.Errorf("failed to pack getChronicle call: %w", err)
	}

	raw, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		return Chronicle{}, fmt.Errorf("getChronicle call failed: %w", err)
	}

	values, err := c.abi.Unpack("getChronicle", raw)
	if err != nil {
		return Chronicle{}, fmt.Errorf("failed to unpack getChronicle result: %w", err)
	}

	narrative, _ := values[0].(string)
	requester, _ := values[1].(common.Address)
	timestamp, _ := values[2].(*big.Int)

	chronicle := Chronicle{
		Narrative: narrative,
		Requester: requester,
	}

	if timestamp != nil {
		chronicle.Timestamp = timestamp.Uint64()
	}

	return chronicle, nil
}

func (c *Client) PendingRequester(ctx context.Context, txHash common.Hash) (common.Address, error) {
	var requester common.Address

	if err := c.call(ctx, "pendingRequests", []any{txHash}, &requester); err != nil {
		return common.Address{}, err
	}

	return requester, nil
}

func (c *Client) SubmissionFee(ctx context.Context) (*big.Int, error) {
	var fee *big.Int

	if err := c.call(ctx, "submissionFee", nil, &fee); err != nil {
		return nil, err
	}

	return fee, nil
}

func (c *Client) PointsOf(ctx context.Context, addr common.Address) (*big.Int, error) {
	var points *big.Int

	if err := c.call(ctx, "userPoints", []any{addr}, &points); err != nil {
		return nil, err
	}

	return points, nil
}

func (c *Client) TransactionByHash(ctx context.Context, txHash common.Hash) (Transaction, error) {
	tx, pending, err := c.eth.TransactionByHash(ctx, txHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return Transaction{}, ErrNotFound
		}

		return Transaction{}, fmt.Errorf("failed to fetch transaction: %w", err)
	}

	from, err := types.Sender(types.LatestSignerForChainID(c.chainID), tx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to recover sender: %w", err)
	}

	record := Transaction{
		Hash:  tx.Hash(),
		From:  from,
		Value: tx.Value(),
		Gas:   tx.Gas(),
	}

	// contract creations have no recipient
	if to := tx.To(); to != nil {
		record.To = *to
	}

	// pending transactions have no containing block yet
	if !pending {
		receipt, err := c.eth.TransactionReceipt(ctx, txHash)
		if err == nil && receipt.BlockNumber != nil {
			record.BlockNumber = receipt.BlockNumber.Uint64()
		}
	}

	return record, nil
}

func (c *Client) SubmitChronicle(ctx context.Context, txHash common.Hash, narrative string) (common.Hash, error) {
	data, err := c.abi.Pack("addChronicle", txHash, narrative)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack addChronicle call: %w", err)
	}

	nonce, err := c.eth.PendingNonceAt(ctx, c.sender)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to read pending nonce: %w", err)
	}

	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to suggest gas price: %w", err)
	}

	gasLimit, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
		From:     c.sender,
		To:       &c.contract,
		GasPrice: gasPrice,
		Data:     data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.contract,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign commit transaction: %w", err)
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send commit transaction: %w", err)
	}

	// a write is not done until the chain confirms it
	receipt, err := bind.WaitMined(ctx, c.eth, signed)
	if err != nil {
		return common.Hash{}, fmt.Errorf("commit transaction %s not confirmed: %w", signed.Hash(), err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return common.Hash{}, fmt.Errorf("commit transaction %s reverted", signed.Hash())
	}

	return signed.Hash(), nil
}

// packs a view call, executes it, and unpacks the single result into out
func (c *Client) call(ctx context.Context, method string, args []any, out any) error {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	raw, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		return fmt.Errorf("%s call failed: %w", method, err)
	}

	if err := c.abi.UnpackIntoInterface(out, method, raw); err != nil {
		return fmt.Errorf("failed to unpack %s result: %w", method, err)
	}

	return nil
}
