package export

import "github.com/sdejongh/exporter/pkg/models"

// Observer receives run progress in processing order. Calls happen on the
// goroutine running the export.
type Observer interface {
	// Started is called once enumeration is done
	Started(total int, dryRun bool)

	// Processed is called once per candidate, index starting at 1
	Processed(index int, outcome models.Outcome)

	// Finished is called with the final summary
	Finished(summary *models.RunSummary)
}

// ObserverFunc adapts a function to an Observer that only sees outcomes
type ObserverFunc func(index int, outcome models.Outcome)

func (f ObserverFunc) Started(total int, dryRun bool) {}

func (f ObserverFunc) Processed(index int, outcome models.Outcome) {
	f(index, outcome)
}

func (f ObserverFunc) Finished(summary *models.RunSummary) {}

// Observers fans events out to several observers
type Observers []Observer

func (o Observers) Started(total int, dryRun bool) {
	for _, obs := range o {
		obs.Started(total, dryRun)
	}
}

func (o Observers) Processed(index int, outcome models.Outcome) {
	for _, obs := range o {
		obs.Processed(index, outcome)
	}
}

func (o Observers) Finished(summary *models.RunSummary) {
	for _, obs := range o {
		obs.Finished(summary)
	}
}

type nopObserver struct{}

func (nopObserver) Started(int, bool)             {}
func (nopObserver) Processed(int, models.Outcome) {}
func (nopObserver) Finished(*models.RunSummary)   {}
