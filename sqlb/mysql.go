package sqlb

import (
	"database/sql"

	"github.com/go-sql-driver/mysql"
)

// OpenMySQL 使用 MySQL 驱动配置创建 DB 对象
func OpenMySQL(cfg *mysql.Config, opts ...DBOption) (*DB, error) {
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	return Open(sql.OpenDB(connector), opts...)
}
