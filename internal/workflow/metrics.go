package workflow

import "github.com/mkarimz/deduction-gateway/pkg/prom"

// Step labels for the approval-failure counter.
const (
	stepGuard       = "guard"
	stepLedger      = "ledger"
	stepDeduction   = "deduction"
	stepTransaction = "transaction"
	stepCache       = "cache"
)

func recordApproval(ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	prom.IncCounterVec(prom.SystemWorkflow, prom.MetricApprovalsTotal, result)
}

func recordApprovalFailure(step string) {
	prom.IncCounterVec(prom.SystemWorkflow, prom.MetricApprovalFailuresTotal, step)
}

func recordCancellation(ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	prom.IncCounterVec(prom.SystemWorkflow, prom.MetricCancellationsTotal, result)
}
