package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "gemmary-backend/internal/adapter/http"
	idemp "gemmary-backend/internal/adapter/middleware"
	"gemmary-backend/internal/adapter/repository/mysql"
	"gemmary-backend/internal/config"
	"gemmary-backend/internal/infrastructure/cache"
	"gemmary-backend/internal/infrastructure/db"
	"gemmary-backend/internal/jobs"
	customerUC "gemmary-backend/internal/usecase/customer"
	loanUC "gemmary-backend/internal/usecase/loan"
	trxUC "gemmary-backend/internal/usecase/transaction"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	uow := mysql.NewGormUoW(gdb)
	customers := customerUC.NewUsecase(mysql.NewCustomerRepository(gdb), uow, customerUC.DefaultPolicy())
	loans := loanUC.NewUsecase(mysql.NewLoanRepository(gdb), uow)
	facts := trxUC.NewUsecase(mysql.NewTransactionRepository(gdb), uow)

	sweep := jobs.NewConsistencySweep(customers)
	if err := sweep.Start(cfg.ConsistencyCron); err != nil {
		log.Fatal(err)
	}
	defer sweep.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	httpadp.Register(e, httpadp.Handlers{
		Health:      httpadp.NewHandler(),
		Dashboard:   httpadp.NewDashboardHandler(loans, facts),
		Customers:   httpadp.NewCustomerHandler(customers),
		Loans:       httpadp.NewLoanHandler(loans),
		Facts:       httpadp.NewTransactionHandler(facts),
		Branches:    httpadp.NewBranchHandler(mysql.NewBranchRepository(gdb)),
		Reports:     httpadp.NewReportHandler(mysql.NewTransactionRepository(gdb)),
		Calculator:  httpadp.NewCalculatorHandler(),
		Idempotency: idemp.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second),
	})

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
