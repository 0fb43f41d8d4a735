package domain

// TransactionRecord is one parsed row of the ledger export table.
// Values are kept as raw strings exactly as they appeared in the statement;
// the model consumes them verbatim, so no type coercion happens here.
// Records are immutable once parsed.
type TransactionRecord struct {
	Timestamp   string // value of the timestamp column
	Description string // value of the description column

	// Columns and Values carry the full row in statement order, including
	// columns this system never interprets. All records from one statement
	// share the same Columns slice.
	Columns []string
	Values  []string
}
