// Copyright 2025 Certen Protocol
//
// basic is the example token chaincode exercising the pipeline end to end
// (spec §8 scenarios S1-S5): mint, transfer, and a running total supply.

package basic

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/certen/independant-validator/internal/chaincode"
)

// ChaincodeID is the id this module registers under.
const ChaincodeID = "basic"

const totalSupplyKey = "totalSupply"

func balanceKey(account string) string {
	return "balance:" + account
}

// Contract implements chaincode.Module for a minimal fungible token.
type Contract struct{}

// New returns a basic token chaincode instance.
func New() *Contract {
	return &Contract{}
}

// Init sets totalSupply to 0. Args are unused.
func (c *Contract) Init(ctx *chaincode.Context, _ []string) (string, error) {
	ctx.PutState(totalSupplyKey, "0")
	return "", nil
}

// Invoke dispatches to mint, transfer, or balanceOf.
func (c *Contract) Invoke(ctx *chaincode.Context, fn string, args []string) (string, error) {
	switch fn {
	case "mint":
		return "", c.mint(ctx, args)
	case "transfer":
		return "", c.transfer(ctx, args)
	case "balanceOf":
		return c.balanceOf(ctx, args)
	default:
		return "", fmt.Errorf("basic: unknown function %q", fn)
	}
}

func (c *Contract) mint(ctx *chaincode.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("basic: mint requires amount and account")
	}
	amount, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	account := args[1]

	balance, err := c.readAmount(ctx, balanceKey(account))
	if err != nil {
		return err
	}
	supply, err := c.readAmount(ctx, totalSupplyKey)
	if err != nil {
		return err
	}

	ctx.PutState(balanceKey(account), formatAmount(balance+amount))
	ctx.PutState(totalSupplyKey, formatAmount(supply+amount))
	return nil
}

func (c *Contract) transfer(ctx *chaincode.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("basic: transfer requires from, to, and amount")
	}
	from, to := args[0], args[1]
	amount, err := parseAmount(args[2])
	if err != nil {
		return err
	}

	fromBalance, err := c.readAmount(ctx, balanceKey(from))
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return fmt.Errorf("basic: insufficient balance: %s has %d, needs %d", from, fromBalance, amount)
	}
	toBalance, err := c.readAmount(ctx, balanceKey(to))
	if err != nil {
		return err
	}

	ctx.PutState(balanceKey(from), formatAmount(fromBalance-amount))
	ctx.PutState(balanceKey(to), formatAmount(toBalance+amount))
	return nil
}

func (c *Contract) balanceOf(ctx *chaincode.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("basic: balanceOf requires account")
	}
	value, ok, err := ctx.GetState(balanceKey(args[0]))
	if err != nil {
		return "", err
	}
	if !ok {
		return "0", nil
	}
	return value, nil
}

func (c *Contract) readAmount(ctx *chaincode.Context, key string) (int64, error) {
	value, ok, err := ctx.GetState(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return parseAmount(value)
}

func parseAmount(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("basic: invalid amount %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("basic: negative amount %q", s)
	}
	return n, nil
}

func formatAmount(n int64) string {
	return strconv.FormatInt(n, 10)
}
