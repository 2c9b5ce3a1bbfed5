/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package verdict

import (
	"context"
	"errors"
	"strings"

	"chainguard.dev/mcqqc/dispatch"
	"github.com/chainguard-dev/clog"
)

const (
	// InvalidResponse marks a slot whose call produced no text.
	InvalidResponse = "Invalid response"
	// ParseFailurePrefix prefixes the cause of a reply that did not decode.
	ParseFailurePrefix = "Failed to parse response: "
)

// Slot describes the rubric answering at one position of a fan-out.
type Slot struct {
	ID    string
	Shape Shape
}

// Assemble maps replies onto slots by index. The result always has one
// entry per slot; a slot without a matching reply is an invalid response.
func Assemble(ctx context.Context, slots []Slot, replies []dispatch.Reply) ResultMap {
	out := make(ResultMap, len(slots))
	for i, slot := range slots {
		var reply dispatch.Reply
		if i < len(replies) {
			reply = replies[i]
		} else {
			reply = dispatch.Reply{Err: errors.New("no reply for slot")}
		}
		out[i] = Entry{ID: slot.ID, Result: assembleOne(ctx, slot, reply)}
		recordOutcome(slot.ID, out[i].Result)
	}
	return out
}

func assembleOne(ctx context.Context, slot Slot, reply dispatch.Reply) Result {
	log := clog.FromContext(ctx).With("rubric", slot.ID)

	var pe *dispatch.PanicError
	if errors.As(reply.Err, &pe) {
		log.With("error", pe.Error()).Error("Evaluation panicked")
		return Failed(pe.Error())
	}
	if reply.Err != nil || strings.TrimSpace(reply.Text) == "" {
		if reply.Err != nil {
			log.With("error", reply.Err.Error()).Warn("Evaluation returned no verdict")
		}
		return Failed(InvalidResponse)
	}

	v, err := Parse(slot.Shape, reply.Text)
	if err != nil {
		log.With("error", err.Error()).
			With("response_length", len(reply.Text)).
			Warn("Failed to parse verdict")
		return Failed(ParseFailurePrefix + err.Error())
	}
	return Result{Verdict: v}
}
