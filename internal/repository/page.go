package repository

// 一覧取得のページ指定。Page は 0 始まり。
// SortColumn は usecase 側でホワイトリスト済みのカラム名だけを入れる。
type PageQuery struct {
	Page       int
	Size       int
	SortColumn string
	SortDesc   bool
}

func (q PageQuery) Offset() int {
	return q.Page * q.Size
}

// ORDER BY 句。未指定なら def を使う。
func (q PageQuery) OrderClause(def string) string {
	if q.SortColumn == "" {
		return def
	}
	if q.SortDesc {
		return q.SortColumn + " desc"
	}
	return q.SortColumn + " asc"
}
