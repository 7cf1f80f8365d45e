package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fyerfyer/fyer-sqlb/logger"
	"github.com/fyerfyer/fyer-sqlb/middleware/opentracing"
	promware "github.com/fyerfyer/fyer-sqlb/middleware/prometheus"
	"github.com/fyerfyer/fyer-sqlb/middleware/querylog"
	"github.com/fyerfyer/fyer-sqlb/sqlb"
)

func main() {
	// 配置日志
	log := logger.New(
		logger.WithLevel(logger.DebugLevel),
		logger.WithOutput(os.Stdout),
	)

	dsn := os.Getenv("SQLB_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(127.0.0.1:3306)/sqlb_example"
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		log.Error("invalid dsn", logger.FieldError(err))
		os.Exit(1)
	}

	metrics := &promware.MiddlewareBuilder{
		NameSpace:  "sqlb_example",
		Name:       "statement_duration_microseconds",
		Help:       "statement latency",
		Registerer: prometheus.DefaultRegisterer,
	}
	db, err := sqlb.OpenMySQL(cfg,
		sqlb.WithLogger(log),
		sqlb.WithMiddlewares(
			querylog.NewMiddlewareBuilder(
				querylog.WithLogger(log),
				querylog.WithSlowThreshold(200*time.Millisecond),
			).Build(),
			metrics.Build(),
			(&opentracing.MiddlewareBuilder{}).Build(),
		),
		sqlb.WithResultCache(sqlb.NewMemoryCache(time.Minute, 5*time.Minute)),
	)
	if err != nil {
		log.Error("open database", logger.FieldError(err))
		os.Exit(1)
	}
	defer db.Close()

	if err = run(context.Background(), db); err != nil {
		log.Error("example failed", logger.FieldError(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, db *sqlb.DB) error {
	if _, err := db.ExecSQL(ctx, "CREATE TABLE IF NOT EXISTS `users` "+
		"(`id` INT PRIMARY KEY, `name` VARCHAR(64), `age` INT);"); err != nil {
		return err
	}

	_, err := db.Insert("users").
		Columns("id", "name", "age").
		Values(1, "Tom", 18).
		Values(2, "Jerry", 20).
		OnDuplicateKeyUpdate().
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.Update("users").
		Set("age", 21).
		Where(sqlb.NewFilter().Equal("name", "Jerry")).
		Exec(ctx)
	if err != nil {
		return err
	}

	rows, err := db.Select("users", "u").
		Column("id", "u").
		Column("name", "u").
		Where(sqlb.NewFilter().GreaterEqual("age", 18)).
		OrderBy("id", "desc").
		Limit(10).
		Fetch(ctx)
	if err != nil {
		return err
	}
	for _, row := range rows {
		fmt.Printf("%v\t%v\n", row["id"], row["name"])
	}

	_, err = db.Delete("users").Where(sqlb.NewFilter().Lower("age", 0)).Exec(ctx)
	return err
}
