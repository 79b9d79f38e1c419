package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/pay-the-piper/internal/common"
	"github.com/Veraticus/pay-the-piper/internal/ledger"
	"github.com/Veraticus/pay-the-piper/internal/model"
	"github.com/Veraticus/pay-the-piper/internal/storage"
)

// findBill looks a bill up by exact id first, then by unique id prefix,
// then by case-insensitive title.
func findBill(ctx context.Context, store *storage.SQLiteStorage, ref string) (*model.Bill, error) {
	if bill, err := store.GetBill(ctx, ref); err == nil {
		return bill, nil
	}

	bills, err := store.GetBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	var matches []model.Bill
	for _, b := range bills {
		if strings.HasPrefix(b.ID, ref) || strings.EqualFold(b.Title, ref) {
			matches = append(matches, b)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no bill matching %q: %w", ref, common.ErrNotFound)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("bill reference %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// resolveCategory accepts a category id or name.
func resolveCategory(ctx context.Context, store *storage.SQLiteStorage, ref string) (*model.BillCategory, error) {
	if cat, err := store.GetBillCategoryByID(ctx, ref); err == nil {
		return cat, nil
	}

	categories, err := store.GetBillCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	for i := range categories {
		if strings.EqualFold(categories[i].Name, ref) {
			return &categories[i], nil
		}
	}
	return nil, fmt.Errorf("no category matching %q: %w", ref, common.ErrNotFound)
}

// resolveWallet accepts a wallet id or name.
func resolveWallet(ctx context.Context, l *ledger.SQLiteLedger, ref string) (*model.Wallet, error) {
	if wallet, err := l.GetWallet(ctx, ref); err == nil {
		return wallet, nil
	}

	wallets, err := l.GetWallets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	for i := range wallets {
		if strings.EqualFold(wallets[i].Name, ref) {
			return &wallets[i], nil
		}
	}
	return nil, fmt.Errorf("no wallet matching %q: %w", ref, common.ErrNotFound)
}
