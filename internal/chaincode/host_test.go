package chaincode

import (
	"errors"
	"testing"

	"github.com/certen/independant-validator/internal/kvstore"
	"github.com/certen/independant-validator/internal/ledger"
	"github.com/certen/independant-validator/internal/worldstate"
)

type echoModule struct{}

func (echoModule) Init(ctx *Context, args []string) (string, error) {
	ctx.PutState("initialized", "true")
	return "", nil
}

func (echoModule) Invoke(ctx *Context, fn string, args []string) (string, error) {
	switch fn {
	case "set":
		ctx.PutState(args[0], args[1])
		return "", nil
	case "get":
		v, ok, err := ctx.GetState(args[0])
		if err != nil {
			return "", err
		}
		if !ok {
			return "", nil
		}
		return v, nil
	case "fail":
		return "", errors.New("echo: deliberate failure")
	case "panic":
		panic("echo: deliberate panic")
	default:
		return "", errors.New("echo: unknown function")
	}
}

func newTestHost() (*Host, *worldstate.Store) {
	h := NewHost()
	h.Register("echo", echoModule{})
	store := worldstate.New(kvstore.OpenMemDB(), "ch1")
	return h, store
}

func TestExecuteTransactionDeploy(t *testing.T) {
	h, store := newTestHost()
	result, err := h.ExecuteTransaction(store, ledger.TxPayload{Type: ledger.TxDeploy, ChaincodeID: "echo"}, "alice", "Org1")
	if err != nil {
		t.Fatalf("ExecuteTransaction: %v", err)
	}
	if len(result.RWSet.Writes) != 1 || *result.RWSet.Writes[0].Value != "true" {
		t.Errorf("got %+v", result.RWSet)
	}
}

func TestExecuteTransactionInvokeRequiresFunctionName(t *testing.T) {
	h, store := newTestHost()
	_, err := h.ExecuteTransaction(store, ledger.TxPayload{Type: ledger.TxInvoke, ChaincodeID: "echo"}, "alice", "Org1")
	if err == nil {
		t.Error("expected error for missing function name")
	}
}

func TestExecuteTransactionUnknownChaincode(t *testing.T) {
	h, store := newTestHost()
	_, err := h.ExecuteTransaction(store, ledger.TxPayload{Type: ledger.TxDeploy, ChaincodeID: "ghost"}, "alice", "Org1")
	if !errors.Is(err, ErrChaincodeNotFound) {
		t.Errorf("got %v, want ErrChaincodeNotFound", err)
	}
}

func TestExecuteTransactionChaincodeErrorReturnsNoPartialRWSet(t *testing.T) {
	h, store := newTestHost()
	result, err := h.ExecuteTransaction(store, ledger.TxPayload{Type: ledger.TxInvoke, ChaincodeID: "echo", FunctionName: "fail"}, "alice", "Org1")
	if err == nil {
		t.Fatal("expected error")
	}
	if len(result.RWSet.Writes) != 0 || len(result.RWSet.Reads) != 0 {
		t.Errorf("expected empty RWSet on failure, got %+v", result.RWSet)
	}
}

func TestExecuteTransactionRecoversPanic(t *testing.T) {
	h, store := newTestHost()
	_, err := h.ExecuteTransaction(store, ledger.TxPayload{Type: ledger.TxInvoke, ChaincodeID: "echo", FunctionName: "panic"}, "alice", "Org1")
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
}

func TestExecuteTransactionFreshInvocationReadsCommittedValue(t *testing.T) {
	h, store := newTestHost()
	result, err := h.ExecuteTransaction(store, ledger.TxPayload{
		Type: ledger.TxInvoke, ChaincodeID: "echo", FunctionName: "set", Args: []string{"k", "v1"},
	}, "alice", "Org1")
	if err != nil {
		t.Fatalf("ExecuteTransaction: %v", err)
	}
	if err := store.Apply(result.RWSet, 1, 0); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// Invoking "get" right after "set" within the *same* invocation should
	// see the pending write without re-recording a read entry; here we
	// test the cross-invocation case: a fresh invocation always reads the
	// committed value.
	result2, err := h.ExecuteTransaction(store, ledger.TxPayload{
		Type: ledger.TxInvoke, ChaincodeID: "echo", FunctionName: "get", Args: []string{"k"},
	}, "alice", "Org1")
	if err != nil {
		t.Fatalf("ExecuteTransaction: %v", err)
	}
	if result2.Result != "v1" {
		t.Errorf("got %q, want v1", result2.Result)
	}
	if len(result2.RWSet.Reads) != 1 || result2.RWSet.Reads[0].Version.BlockNum != 1 {
		t.Errorf("expected a read entry versioned at block 1, got %+v", result2.RWSet.Reads)
	}
}

func TestHasReportsRegistration(t *testing.T) {
	h, _ := newTestHost()
	if !h.Has("echo") {
		t.Error("expected echo to be registered")
	}
	if h.Has("ghost") {
		t.Error("expected ghost to be unregistered")
	}
}
