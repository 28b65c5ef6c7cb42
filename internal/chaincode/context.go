// Copyright 2025 Certen Protocol
//
// Execution context wrapping a world-state snapshot and recording the
// read-write set a chaincode invocation produces. Grounded on the
// executor-as-thin-adapter shape of pkg/execution/executor.go, rebuilt
// around this spec's simulate-then-record semantics.

package chaincode

import (
	"fmt"

	"github.com/certen/independant-validator/internal/worldstate"
)

// Context is handed to a chaincode Module for the duration of one
// Init/Invoke call. It is not safe for concurrent use — one invocation
// owns one Context.
type Context struct {
	store        *worldstate.Store
	creatorID    string
	creatorOrgID string

	reads        []worldstate.ReadEntry
	readRecorded map[string]bool

	writes     []worldstate.WriteEntry
	writeIndex map[string]int
}

func newContext(store *worldstate.Store, creatorID, creatorOrgID string) *Context {
	return &Context{
		store:        store,
		creatorID:    creatorID,
		creatorOrgID: creatorOrgID,
		readRecorded: map[string]bool{},
		writeIndex:   map[string]int{},
	}
}

// CreatorID returns the identity id that submitted the proposal driving
// this invocation.
func (c *Context) CreatorID() string { return c.creatorID }

// CreatorOrgID returns the org id of the proposal's creator.
func (c *Context) CreatorOrgID() string { return c.creatorOrgID }

// GetState returns key's logical value. Reads of a key already written by
// this same invocation return the pending write (read-your-own-writes);
// the RWSet's reads entry, if this is the first touch of key, still
// records the version observed in the underlying store before any write
// (spec §4.3, §8 property 7).
func (c *Context) GetState(key string) (string, bool, error) {
	if idx, ok := c.writeIndex[key]; ok {
		w := c.writes[idx]
		if w.Value == nil {
			return "", false, nil
		}
		return *w.Value, true, nil
	}

	if !c.readRecorded[key] {
		version, err := c.store.GetVersion(key)
		if err != nil {
			return "", false, fmt.Errorf("read version %q: %w", key, err)
		}
		c.reads = append(c.reads, worldstate.ReadEntry{Key: key, Version: version})
		c.readRecorded[key] = true
	}

	value, err := c.store.Get(key)
	if err != nil {
		return "", false, fmt.Errorf("read state %q: %w", key, err)
	}
	if value == nil {
		return "", false, nil
	}
	return *value, true, nil
}

// PutState stages a write of value to key, visible to subsequent GetState
// calls in this same invocation but not to the underlying store until the
// committer applies the RWSet.
func (c *Context) PutState(key, value string) {
	c.stageWrite(key, &value)
}

// DelState stages a delete of key.
func (c *Context) DelState(key string) {
	c.stageWrite(key, nil)
}

func (c *Context) stageWrite(key string, value *string) {
	if idx, ok := c.writeIndex[key]; ok {
		c.writes[idx].Value = value
		return
	}
	c.writeIndex[key] = len(c.writes)
	c.writes = append(c.writes, worldstate.WriteEntry{Key: key, Value: value})
}

// rwSet returns the accumulated read-write set.
func (c *Context) rwSet() worldstate.RWSet {
	return worldstate.RWSet{Reads: c.reads, Writes: c.writes}
}
