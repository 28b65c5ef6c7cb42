package basic

import (
	"testing"

	"github.com/certen/independant-validator/internal/chaincode"
	"github.com/certen/independant-validator/internal/kvstore"
	"github.com/certen/independant-validator/internal/ledger"
	"github.com/certen/independant-validator/internal/worldstate"
)

func newHostAndStore() (*chaincode.Host, *worldstate.Store) {
	h := chaincode.NewHost()
	h.Register(ChaincodeID, New())
	return h, worldstate.New(kvstore.OpenMemDB(), "ch1")
}

func invoke(t *testing.T, h *chaincode.Host, store *worldstate.Store, blockNum uint64, fn string, args []string) chaincode.ExecutionResult {
	t.Helper()
	result, err := h.ExecuteTransaction(store, ledger.TxPayload{Type: ledger.TxInvoke, ChaincodeID: ChaincodeID, FunctionName: fn, Args: args}, "alice", "Org1")
	if err != nil {
		t.Fatalf("invoke %s: %v", fn, err)
	}
	if err := store.Apply(result.RWSet, blockNum, 0); err != nil {
		t.Fatalf("apply %s: %v", fn, err)
	}
	return result
}

func TestMintIncreasesBalanceAndSupply(t *testing.T) {
	h, store := newHostAndStore()
	_, err := h.ExecuteTransaction(store, ledger.TxPayload{Type: ledger.TxDeploy, ChaincodeID: ChaincodeID}, "alice", "Org1")
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}

	invoke(t, h, store, 1, "mint", []string{"100", "alice"})

	result := invoke(t, h, store, 2, "balanceOf", []string{"alice"})
	if result.Result != "100" {
		t.Errorf("got balance %q, want 100", result.Result)
	}

	supply, err := store.Get(totalSupplyKey)
	if err != nil {
		t.Fatalf("get total supply: %v", err)
	}
	if supply == nil || *supply != "100" {
		t.Errorf("got total supply %v, want 100", supply)
	}
}

func TestTransferMovesBalance(t *testing.T) {
	h, store := newHostAndStore()
	if _, err := h.ExecuteTransaction(store, ledger.TxPayload{Type: ledger.TxDeploy, ChaincodeID: ChaincodeID}, "alice", "Org1"); err != nil {
		t.Fatalf("deploy: %v", err)
	}
	invoke(t, h, store, 1, "mint", []string{"100", "alice"})
	invoke(t, h, store, 2, "transfer", []string{"alice", "bob", "40"})

	aliceBal := invoke(t, h, store, 3, "balanceOf", []string{"alice"})
	bobBal := invoke(t, h, store, 4, "balanceOf", []string{"bob"})
	if aliceBal.Result != "60" {
		t.Errorf("alice balance = %q, want 60", aliceBal.Result)
	}
	if bobBal.Result != "40" {
		t.Errorf("bob balance = %q, want 40", bobBal.Result)
	}
}

func TestTransferInsufficientBalanceFails(t *testing.T) {
	h, store := newHostAndStore()
	if _, err := h.ExecuteTransaction(store, ledger.TxPayload{Type: ledger.TxDeploy, ChaincodeID: ChaincodeID}, "alice", "Org1"); err != nil {
		t.Fatalf("deploy: %v", err)
	}
	invoke(t, h, store, 1, "mint", []string{"10", "alice"})

	_, err := h.ExecuteTransaction(store, ledger.TxPayload{
		Type: ledger.TxInvoke, ChaincodeID: ChaincodeID, FunctionName: "transfer", Args: []string{"alice", "bob", "50"},
	}, "alice", "Org1")
	if err == nil {
		t.Error("expected error for transfer exceeding balance")
	}
}

func TestBalanceOfUnknownAccountIsZero(t *testing.T) {
	h, store := newHostAndStore()
	if _, err := h.ExecuteTransaction(store, ledger.TxPayload{Type: ledger.TxDeploy, ChaincodeID: ChaincodeID}, "alice", "Org1"); err != nil {
		t.Fatalf("deploy: %v", err)
	}
	result := invoke(t, h, store, 1, "balanceOf", []string{"ghost"})
	if result.Result != "0" {
		t.Errorf("got %q, want 0", result.Result)
	}
}
