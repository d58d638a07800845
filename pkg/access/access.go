// Package access filters the template catalog by caller identity and
// subscription plan. Restriction checks never fail open: an anonymous
// identity or a missing subscription matches no restricted template.
package access

import (
	"github.com/goliatone/go-pressbox/pkg/catalog"
)

// Identity is the caller identity supplied by the external session provider.
// The zero value is an anonymous caller.
type Identity struct {
	UserID string
}

// Subscription is the caller's current plan as supplied by the external
// billing collaborator. The zero value carries no plan and no quota.
type Subscription struct {
	PlanType          string
	ArticlesRemaining int
}

// CanGenerate reports whether the subscription has generation quota left.
// Pro plans are unmetered; everything else consumes remaining articles.
func CanGenerate(sub Subscription) bool {
	if sub.PlanType == "pro" {
		return true
	}
	return sub.ArticlesRemaining > 0
}

// Resolver filters a registry by access rules.
type Resolver struct {
	registry *catalog.Registry
}

// NewResolver builds a resolver over the given registry.
func NewResolver(registry *catalog.Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Available returns the templates visible to the caller, preserving registry
// order. Anonymous callers see only open templates. An empty result is valid.
func (r *Resolver) Available(identity Identity, sub Subscription) []catalog.TemplateSpec {
	all := r.registry.List()
	out := make([]catalog.TemplateSpec, 0, len(all))
	for _, spec := range all {
		if r.Allowed(spec.Access, identity, sub) {
			out = append(out, spec)
		}
	}
	return out
}

// Allowed evaluates a single access rule against the caller. Every condition
// present on a restricted rule must match.
func (r *Resolver) Allowed(rule catalog.AccessRule, identity Identity, sub Subscription) bool {
	if rule.Open() {
		return true
	}
	if len(rule.AllowedUserIDs) > 0 {
		if identity.UserID == "" || !contains(rule.AllowedUserIDs, identity.UserID) {
			return false
		}
	}
	if len(rule.AllowedPlanTypes) > 0 {
		if sub.PlanType == "" || !contains(rule.AllowedPlanTypes, sub.PlanType) {
			return false
		}
	}
	return true
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
