// Package secure keeps credentials encrypted while they sit in memory.
//
// It wraps memguard: values are held in an encrypted enclave and only
// decrypted into a locked buffer for the moment they are needed. The hook
// uses it for the Vault token between construction and client creation.
//
//	buf := secure.NewSecureString(token)
//	defer buf.Destroy()
//
//	token, err := buf.Reveal()
//
// Memory locking depends on the platform. On Linux it is subject to
// RLIMIT_MEMLOCK; memguard falls back to ordinary memory when mlock fails.
// The enclave contents stay encrypted either way.
package secure
