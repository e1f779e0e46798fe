// Package vaulthook connects workflow tasks to HashiCorp Vault.
//
// A Hook is built from a connection identifier. The identifier is resolved
// through an injected connection.Lookup into host, port, token and an
// optional client certificate pair. Nothing talks to Vault until the first
// operation, at which point a client bound to
//
//	https://host:port    (or http://host:port with WithTLS(false))
//
// is created and kept for the life of the Hook.
//
// # Usage
//
//	hook, err := vaulthook.New(ctx, registry, "vault_default", vaulthook.WithTLS(false))
//	if err != nil {
//	    return err // connection.NotFoundError for unknown identifiers
//	}
//
//	if _, err := hook.Write(ctx, "secret/foo", map[string]interface{}{"bar": "bar"}); err != nil {
//	    return err
//	}
//
//	secret, err := hook.Read(ctx, "secret/foo")
//	if err != nil {
//	    return err
//	}
//	if secret == nil {
//	    // nothing stored at secret/foo
//	}
//
// # Errors
//
// Only client construction errors are translated, into
// *ClientConstructionError. Errors returned by Vault for read, write,
// delete and the authentication check reach the caller unchanged.
//
// # Concurrency
//
// First use is serialized, so concurrent callers share one client. All
// operations block until Vault answers or ctx is done.
package vaulthook
