package ccmeta

import (
	"testing"

	"github.com/certen/independant-validator/internal/kvstore"
	"github.com/certen/independant-validator/internal/ledger"
	"github.com/certen/independant-validator/internal/worldstate"
)

func TestExistsFalseBeforeSave(t *testing.T) {
	store := worldstate.New(kvstore.OpenMemDB(), "ch1")
	exists, err := Exists(store, "basic")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Error("expected exists=false before any Save")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	store := worldstate.New(kvstore.OpenMemDB(), "ch1")
	meta := Metadata{
		ChaincodeID:       "basic",
		Version:           "tx1",
		EndorsementPolicy: &ledger.EndorsementPolicy{Type: ledger.PolicyAny, Orgs: []string{"Org1", "Org2"}},
	}
	if err := Save(store, meta, 1, 0); err != nil {
		t.Fatalf("Save: %v", err)
	}

	exists, err := Exists(store, "basic")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Error("expected exists=true after Save")
	}

	loaded, err := Load(store, "basic")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil || loaded.Version != "tx1" || loaded.EndorsementPolicy.Type != ledger.PolicyAny {
		t.Errorf("got %+v", loaded)
	}
}

func TestLoadReturnsNilForUndeployedChaincode(t *testing.T) {
	store := worldstate.New(kvstore.OpenMemDB(), "ch1")
	loaded, err := Load(store, "ghost")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != nil {
		t.Errorf("expected nil, got %+v", loaded)
	}
}

func TestSaveIsVersionedLikeAnyOtherKey(t *testing.T) {
	store := worldstate.New(kvstore.OpenMemDB(), "ch1")
	meta := Metadata{ChaincodeID: "basic", Version: "tx1"}
	if err := Save(store, meta, 5, 2); err != nil {
		t.Fatalf("Save: %v", err)
	}

	version, err := store.GetVersion(key("basic"))
	if err != nil {
		t.Fatalf("GetVersion: %v", err)
	}
	if version == nil || version.BlockNum != 5 || version.TxNum != 2 {
		t.Errorf("got %+v", version)
	}
}
