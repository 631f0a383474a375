package ledger

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ABI of the ChronicleRegistry contract, limited to the surface this
// service consumes
const contractABI = `[
  {
    "type": "event",
    "name": "ChronicleRequested",
    "inputs": [
      {"name": "txHash", "type": "bytes32", "indexed": true},
      {"name": "requester", "type": "address", "indexed": true},
      {"name": "fee", "type": "uint256", "indexed": false}
    ]
  },
  {
    "type": "event",
    "name": "ChronicleAdded",
    "inputs": [
      {"name": "txHash", "type": "bytes32", "indexed": true},
      {"name": "requester", "type": "address", "indexed": true},
      {"name": "narrative", "type": "string", "indexed": false}
    ]
  },
  {
    "type": "function",
    "name": "chronicleExists",
    "stateMutability": "view",
    "inputs": [{"name": "txHash", "type": "bytes32"}],
    "outputs": [{"name": "", "type": "bool"}]
  },
  {
    "type": "function",
    "name": "getChronicle",
    "stateMutability": "view",
    "inputs": [{"name": "txHash", "type": "bytes32"}],
    "outputs": [
      {"name": "narrative", "type": "string"},
      {"name": "requester", "type": "address"},
      {"name": "timestamp", "type": "uint256"}
    ]
  },
  {
    "type": "function",
    "name": "pendingRequests",
    "stateMutability": "view",
    "inputs": [{"name": "txHash", "type": "bytes32"}],
    "outputs": [{"name": "", "type": "address"}]
  },
  {
    "type": "function",
    "name": "submissionFee",
    "stateMutability": "view",
    "inputs": [],
    "outputs": [{"name": "", "type": "uint256"}]
  },
  {
    "type": "function",
    "name": "userPoints",
    "stateMutability": "view",
    "inputs": [{"name": "user", "type": "address"}],
    "outputs": [{"name": "", "type": "uint256"}]
  },
  {
    "type": "function",
    "name": "addChronicle",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "txHash", "type": "bytes32"},
      {"name": "narrative", "type": "string"}
    ],
    "outputs": []
  }
]`

const (
	eventNameRequested = "ChronicleRequested"
	eventNameAdded     = "ChronicleAdded"
)

// parses the embedded contract ABI
func parseContractABI() (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse contract ABI: %w", err)
	}

	return parsed, nil
}

// returns the log topic for an event kind
func (c *Client) eventTopic(kind EventKind) common.Hash {
	switch kind {
	case EventRequestSubmitted:
		return c.abi.Events[eventNameRequested].ID
	default:
		return c.abi.Events[eventNameAdded].ID
	}
}

// decodes a raw contract log into an Event
func (c *Client) decodeLog(kind EventKind, log types.Log) (Event, error) {
	if len(log.Topics) < 3 {
		return Event{}, fmt.Errorf("malformed log: %d topics", len(log.Topics))
	}

	event := Event{
		Kind:        kind,
		TxHash:      log.Topics[1],
		Requester:   common.BytesToAddress(log.Topics[2].Bytes()),
		BlockNumber: log.BlockNumber,
		LogIndex:    log.Index,
	}

	switch kind {
	case EventRequestSubmitted:
		values, err := c.abi.Unpack(eventNameRequested, log.Data)
		if err != nil {
			return Event{}, fmt.Errorf("failed to unpack %s data: %w", eventNameRequested, err)
		}

		event.FeePaid, _ = values[0].(*big.Int)
		return event, nil
	default:
		values, err := c.abi.Unpack(eventNameAdded, log.Data)
		if err != nil {
			return Event{}, fmt.Errorf("failed to unpack %s data: %w", eventNameAdded, err)
		}

		event.Narrative, _ = values[0].(string)
		return event, nil
	}
}
