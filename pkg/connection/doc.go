// Package connection defines the connection records the hook is configured
// from and the lookup interface registries implement.
//
// A Record carries everything needed to reach a secret store: host, port,
// an optional token and an extras map that may name a client certificate
// and key (the "certfile" and "keyfile" entries).
//
// Registries are injected wherever a record must be resolved:
//
//	reg := connection.NewMemoryRegistry()
//	reg.Put(connection.Record{ID: "vault_default", Host: "vault", Port: "8200"})
//
//	rec, err := reg.Lookup(ctx, "vault_default")
//	if errors.Is(err, connection.ErrNotFound) {
//	    // unknown identifier
//	}
package connection
