package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Products() ProductRepository
	Restaurants() RestaurantRepository
	Customers() CustomerRepository
	AuditLogs() AuditLogRepository
	Reports() ReportRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
	//参照だけの処理（読み取り専用トランザクション）
	WithinReadOnlyTx(ctx context.Context, fn func(r TxRepos) error) error
}
