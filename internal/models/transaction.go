package models

import "time"

// TxKind classifies an audit log transaction.
type TxKind string

// Transaction kinds. SYSTEM marks administrative events (such as a log
// wipe) that do not reference an item.
const (
	TxCreate         TxKind = "CREATE"
	TxUpdate         TxKind = "UPDATE"
	TxDelete         TxKind = "DELETE"
	TxQuantityAdd    TxKind = "QUANTITY_ADD"
	TxQuantityDeduct TxKind = "QUANTITY_DEDUCT"
	TxSystem         TxKind = "SYSTEM"
)

// KindForDirection maps an adjustment direction to its transaction kind.
func KindForDirection(d AdjustDirection) TxKind {
	if d == DirectionDeduct {
		return TxQuantityDeduct
	}

	return TxQuantityAdd
}

// Transaction is one immutable audit log entry describing a single
// mutation. Entries outlive the items they reference: ItemID and
// ItemName are captured at mutation time and never updated.
type Transaction struct {
	ID        int64     `json:"id"`
	Actor     string    `json:"actor"`
	ItemID    string    `json:"item_id,omitempty"`
	ItemName  string    `json:"item_name,omitempty"`
	Kind      TxKind    `json:"kind"`
	Delta     int       `json:"delta"`
	Size      string    `json:"size,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TransactionFilter holds filters for querying the audit log. All fields
// are optional; From and To bound a closed time window.
type TransactionFilter struct {
	ItemID string
	Actor  string
	Kind   TxKind
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
