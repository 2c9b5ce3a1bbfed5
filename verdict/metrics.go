/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package verdict

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var resultCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mcqqc_rubric_results_total",
		Help: "Total number of rubric results by outcome (pass, fail, error)",
	},
	[]string{"rubric", "outcome"},
)

func recordOutcome(id string, r Result) {
	outcome := "error"
	switch {
	case !r.OK():
	case r.Verdict.Score() == 1:
		outcome = "pass"
	default:
		outcome = "fail"
	}
	resultCounter.With(prometheus.Labels{"rubric": id, "outcome": outcome}).Inc()
}
