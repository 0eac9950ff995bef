// Package pivot builds hierarchical rollups of flat transaction lists.
//
// Each rollup is a forest of exactly three levels. Interior nodes carry the
// sum and count of their subtree; leaf nodes carry the raw transactions
// folded into them. Reversal transactions contribute the negation of their
// absolute amount, so every aggregate satisfies
//
//	amount = Σ(t.IsReversal ? -abs(t.Amount) : t.Amount)
//
// over the transactions beneath it.
package pivot

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/svtemple/ledgerdesk/internal/model"
)

// Node is one row of a rollup tree. Level runs 1 (root group) through 3
// (leaf group). Children is populated on levels 1 and 2; Transactions only
// on level 3.
type Node struct {
	ID           string
	Label        string
	Children     []Node
	Transactions []model.Transaction
	Amount       float64
	Count        int
	Level        int
}

// HasChildren reports whether the node expands into subgroups.
func (n Node) HasChildren() bool { return len(n.Children) > 0 }

// HasTransactions reports whether the node carries raw records to show in
// the detail drawer.
func (n Node) HasTransactions() bool { return len(n.Transactions) > 0 }

// ViewMode selects which of the three rollups to build.
type ViewMode int

// The three rollup shapes.
const (
	ViewByYear ViewMode = iota
	ViewByCategory
	ViewByDevotee
)

func (v ViewMode) String() string {
	switch v {
	case ViewByYear:
		return "byYear"
	case ViewByCategory:
		return "byCategory"
	case ViewByDevotee:
		return "byDevotee"
	}
	return "unknown"
}

// Stats summarizes the flat list independent of any rollup.
type Stats struct {
	TotalAmount float64
	Count       int
}

// Totals computes the signed grand total and record count of a flat list.
func Totals(txns []model.Transaction) Stats {
	stats := Stats{Count: len(txns)}
	for _, t := range txns {
		stats.TotalAmount += t.SignedAmount()
	}
	return stats
}

var titleCaser = cases.Title(language.English)

// FormatCategoryName turns a category code into a display label:
// underscores become spaces and each word is title-cased, so
// "GENERAL_DONATIONS" renders as "General Donations".
func FormatCategoryName(code string) string {
	return titleCaser.String(strings.ReplaceAll(code, "_", " "))
}

// Build returns the rollup for the given view mode.
func Build(mode ViewMode, txns []model.Transaction) []Node {
	switch mode {
	case ViewByCategory:
		return ByCategory(txns)
	case ViewByDevotee:
		return ByDevotee(txns)
	default:
		return ByYear(txns)
	}
}

// levelSpec describes one grouping level: how to key a transaction, how to
// label the resulting group, and whether groups sort descending.
type levelSpec struct {
	key   func(model.Transaction) string
	label func(key string, txns []model.Transaction) string
	desc  bool
}

func keyLabel(key string, _ []model.Transaction) string { return key }

func categoryLabel(key string, _ []model.Transaction) string {
	return FormatCategoryName(key)
}

// serviceLabel prefers the display name carried on the first underlying
// transaction and falls back to the raw grouping key.
func serviceLabel(key string, txns []model.Transaction) string {
	if len(txns) > 0 && txns[0].ServiceDisplay != "" {
		return txns[0].ServiceDisplay
	}
	return key
}

// ByYear groups year -> category -> service. Years sort most recent first;
// categories and services sort ascending.
func ByYear(txns []model.Transaction) []Node {
	return build(txns, "", [3]levelSpec{
		{key: model.Transaction.Year, label: keyLabel, desc: true},
		{key: model.Transaction.Category, label: categoryLabel},
		{key: model.Transaction.Service, label: serviceLabel},
	})
}

// ByCategory groups category -> service -> year. Categories and services
// sort ascending; years within a service sort most recent first.
func ByCategory(txns []model.Transaction) []Node {
	return build(txns, "cat-", [3]levelSpec{
		{key: model.Transaction.Category, label: categoryLabel},
		{key: model.Transaction.Service, label: serviceLabel},
		{key: model.Transaction.Year, label: keyLabel, desc: true},
	})
}

// ByDevotee groups devotee -> year -> category. Devotees sort
// alphabetically; years within a devotee sort most recent first.
func ByDevotee(txns []model.Transaction) []Node {
	return build(txns, "dev-", [3]levelSpec{
		{key: model.Transaction.Devotee, label: keyLabel},
		{key: model.Transaction.Year, label: keyLabel, desc: true},
		{key: model.Transaction.Category, label: categoryLabel},
	})
}

// build folds the flat list into a three-level forest. Node IDs encode the
// full grouping path (prefix + joined keys), which keeps them unique within
// a tree and disjoint across the three trees.
func build(txns []model.Transaction, idPrefix string, levels [3]levelSpec) []Node {
	grouped := make(map[string]map[string]map[string][]model.Transaction)
	for _, t := range txns {
		k1 := levels[0].key(t)
		k2 := levels[1].key(t)
		k3 := levels[2].key(t)

		sub, ok := grouped[k1]
		if !ok {
			sub = make(map[string]map[string][]model.Transaction)
			grouped[k1] = sub
		}
		leafs, ok := sub[k2]
		if !ok {
			leafs = make(map[string][]model.Transaction)
			sub[k2] = leafs
		}
		leafs[k3] = append(leafs[k3], t)
	}

	forest := make([]Node, 0, len(grouped))
	for _, k1 := range sortedKeys(grouped, levels[0].desc) {
		sub := grouped[k1]
		rootID := idPrefix + k1
		root := Node{ID: rootID, Level: 1, Children: make([]Node, 0, len(sub))}

		var rootTxns []model.Transaction
		for _, k2 := range sortedKeys(sub, levels[1].desc) {
			leafs := sub[k2]
			groupID := rootID + "-" + k2
			group := Node{ID: groupID, Level: 2, Children: make([]Node, 0, len(leafs))}

			var groupTxns []model.Transaction
			for _, k3 := range sortedKeys(leafs, levels[2].desc) {
				leafTxns := leafs[k3]
				leaf := Node{
					ID:           groupID + "-" + k3,
					Label:        levels[2].label(k3, leafTxns),
					Level:        3,
					Count:        len(leafTxns),
					Transactions: leafTxns,
				}
				for _, t := range leafTxns {
					leaf.Amount += t.SignedAmount()
				}
				group.Amount += leaf.Amount
				group.Count += leaf.Count
				group.Children = append(group.Children, leaf)
				groupTxns = append(groupTxns, leafTxns...)
			}

			group.Label = levels[1].label(k2, groupTxns)
			root.Amount += group.Amount
			root.Count += group.Count
			root.Children = append(root.Children, group)
			rootTxns = append(rootTxns, groupTxns...)
		}

		root.Label = levels[0].label(k1, rootTxns)
		forest = append(forest, root)
	}
	return forest
}

func sortedKeys[V any](m map[string]V, desc bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if desc {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}
	return keys
}

// TopLevelIDs collects the level-1 node IDs of one or more forests. The
// tree view pre-expands these on first load.
func TopLevelIDs(forests ...[]Node) []string {
	var ids []string
	for _, forest := range forests {
		for _, node := range forest {
			ids = append(ids, node.ID)
		}
	}
	return ids
}
