package core

import "context"

// LedgerWorker is a long-running module worker started by the run command.
type LedgerWorker interface {
	Run(ctx context.Context) error
}
