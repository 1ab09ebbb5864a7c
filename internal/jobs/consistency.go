package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	customerUC "gemmary-backend/internal/usecase/customer"
)

const sweepTimeout = 5 * time.Minute

// ConsistencySweep runs the customer dimension check on a schedule and
// logs every natural key that does not have exactly one current row.
// It never repairs anything, a human looks at the log first.
type ConsistencySweep struct {
	customers *customerUC.Usecase
	cron      *cron.Cron
}

func NewConsistencySweep(customers *customerUC.Usecase) *ConsistencySweep {
	return &ConsistencySweep{
		customers: customers,
		cron:      cron.New(),
	}
}

// Start registers the sweep under spec and starts the scheduler.
func (s *ConsistencySweep) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop waits for an in-flight sweep to finish.
func (s *ConsistencySweep) Stop() {
	<-s.cron.Stop().Done()
}

func (s *ConsistencySweep) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	violations, err := s.customers.CheckConsistency(ctx)
	if err != nil {
		log.Printf("consistency sweep failed: %v", err)
		return
	}
	if len(violations) == 0 {
		log.Println("consistency sweep: dim_customer clean")
		return
	}
	for customerID, n := range violations {
		log.Printf("consistency sweep: %s has %d current rows", customerID, n)
	}
}
