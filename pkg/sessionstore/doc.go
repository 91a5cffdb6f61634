// Package sessionstore persists the client session across two mutually
// exclusive tiers: a durable one that survives restarts and an ephemeral
// one scoped to the current process. Writing to one tier clears the other,
// so a read always has a single unambiguous answer.
//
// The store is a dumb key-value shim: it serializes the session record,
// enforces the tier exclusion invariant and treats corrupt or partially
// populated records as absent. It never validates credentials.
//
// Three tier backends ship with the package:
//
//   - MemoryTier – process-scoped, the ephemeral tier
//   - FileTier   – a 0600 JSON file, the durable tier for interactive use
//   - RedisTier  – a shared durable tier for headless deployments
//
// # Usage
//
//	store := sessionstore.New(
//	    sessionstore.NewFileTier(path),
//	    sessionstore.NewMemoryTier(),
//	)
//	_ = store.Write(ctx, rec, sessionstore.Durable)
//	rec, tier, ok := store.Read(ctx)
package sessionstore
