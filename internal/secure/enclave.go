package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// SecureBuffer stores sensitive bytes in a memguard enclave.
//
// An empty input produces an empty buffer that reveals as "". After
// Destroy the buffer also reveals as empty.
type SecureBuffer struct {
	mu        sync.RWMutex
	enclave   *memguard.Enclave
	destroyed bool
}

// NewSecureBuffer copies data into an enclave. memguard wipes the source
// slice, so callers must not reuse it.
func NewSecureBuffer(data []byte) *SecureBuffer {
	if len(data) == 0 {
		return &SecureBuffer{}
	}
	return &SecureBuffer{enclave: memguard.NewEnclave(data)}
}

// NewSecureString is NewSecureBuffer for string input.
func NewSecureString(s string) *SecureBuffer {
	return NewSecureBuffer([]byte(s))
}

// Empty reports whether the buffer holds no data.
func (s *SecureBuffer) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enclave == nil
}

// Open decrypts the enclave into a locked buffer. The caller must Destroy
// the returned buffer.
func (s *SecureBuffer) Open() (*memguard.LockedBuffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.destroyed || s.enclave == nil {
		return memguard.NewBuffer(0), nil
	}
	return s.enclave.Open()
}

// Reveal returns the plaintext as a string. The returned string lives in
// ordinary memory; use it only to hand the value to a library that needs it.
func (s *SecureBuffer) Reveal() (string, error) {
	locked, err := s.Open()
	if err != nil {
		return "", err
	}
	defer locked.Destroy()

	if locked.Size() == 0 {
		return "", nil
	}
	return string(locked.Bytes()), nil
}

// Destroy drops the enclave. It is idempotent.
func (s *SecureBuffer) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enclave = nil
	s.destroyed = true
}
