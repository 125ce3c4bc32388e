package audit

// Filter narrows an audit history query. Zero values match everything.
type Filter struct {
	TableName string
	RowID     string
	Action    Action
	Actor     string
	Limit     int
	Offset    int
}
