package model

type Row map[string]interface{}

// QueryResult holds the rows of one executed statement in column order.
type QueryResult struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

func (r *QueryResult) IsEmpty() bool {
	return r == nil || len(r.Rows) == 0
}

// Truncate returns a result holding at most k rows. k <= 0 keeps everything.
func (r *QueryResult) Truncate(k int) *QueryResult {
	if r == nil {
		return &QueryResult{}
	}
	if k <= 0 || len(r.Rows) <= k {
		return r
	}
	return &QueryResult{Columns: r.Columns, Rows: r.Rows[:k]}
}
