package access

import (
	"net/url"
	"strings"

	"github.com/percytech/hubgate/pkg/domain"
)

// Outcome is the gate's verdict for a request.
type Outcome string

const (
	OutcomeAllow    Outcome = "allow"
	OutcomeRedirect Outcome = "redirect"
	OutcomeDeny     Outcome = "deny"
)

// Well-known redirect targets.
const (
	LoginPath           = "/login"
	PaymentRequiredPath = "/payment-required"
	OnboardingPath      = "/onboarding"
)

// Decision is the gate's answer: allow, redirect somewhere, or deny.
type Decision struct {
	Outcome Outcome `json:"outcome"`
	Target  string  `json:"target,omitempty"`
}

// Allow returns an allow decision.
func Allow() Decision {
	return Decision{Outcome: OutcomeAllow}
}

// Redirect returns a redirect decision to the given target.
func Redirect(target string) Decision {
	return Decision{Outcome: OutcomeRedirect, Target: target}
}

// Deny returns a deny decision.
func Deny() Decision {
	return Decision{Outcome: OutcomeDeny}
}

// GateInput carries everything a gating decision depends on.
type GateInput struct {
	Resolution          Resolution
	Payment             domain.PaymentState
	OnboardingCompleted bool
	// Path is the originally requested route, preserved across the
	// login redirect so the user returns where they started.
	Path string
}

// Decide evaluates the gate in fixed order:
//
//  1. superadmin short-circuits everything;
//  2. no role → login redirect, preserving the requested path;
//  3. payment gating (skipped when the request is already for a
//     payment route, so the redirect cannot loop);
//  4. onboarding gating (same loop protection);
//  5. otherwise allow.
func Decide(in GateInput) Decision {
	if in.Resolution.IsSuperAdmin {
		return Allow()
	}

	if !in.Resolution.Authenticated() {
		target := LoginPath
		if in.Path != "" && in.Path != "/" {
			target += "?next=" + url.QueryEscape(in.Path)
		}
		return Redirect(target)
	}

	if in.Payment == domain.PaymentIncomplete && !isPaymentPath(in.Path) {
		return Redirect(PaymentRequiredPath)
	}

	if in.Payment == domain.PaymentComplete && !in.OnboardingCompleted && !isOnboardingPath(in.Path) {
		return Redirect(OnboardingPath)
	}

	return Allow()
}

func isPaymentPath(path string) bool {
	return strings.HasPrefix(path, PaymentRequiredPath) || strings.HasPrefix(path, "/payment")
}

func isOnboardingPath(path string) bool {
	return strings.HasPrefix(path, OnboardingPath)
}
