// Package secrets seals API keys with AES-GCM before they reach the
// credentials store.
package secrets

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/pbkdf2"

	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
)

const (
	keySize        = 32
	kdfIterations  = 100000
	kdfSalt        = "video_automation_salt"
	defaultKeyFile = ".encryption_key"
)

var ErrCredentialNotFound = errors.New("credential not found")

// Store encrypts credentials on the way into the repository and
// decrypts them on the way out.
type Store struct {
	credentials persistence.CredentialRepository
	aead        cipher.AEAD
}

// NewStore derives the sealing key from the master password, or when
// none is given, loads (or creates) a random key at keyFile.
func NewStore(credentials persistence.CredentialRepository, masterKey, keyFile string) (*Store, error) {
	var key []byte

	if masterKey != "" {
		key = pbkdf2.Key([]byte(masterKey), []byte(kdfSalt), kdfIterations, keySize, sha256.New)
	} else {
		var err error

		key, err = loadOrCreateKey(keyFile)
		if err != nil {
			return nil, err
		}
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize aead: %w", err)
	}

	return &Store{
		credentials: credentials,
		aead:        aead,
	}, nil
}

// Set seals and upserts one credential.
func (s *Store) Set(ctx context.Context, service, apiKey string) error {
	sealed, err := s.seal(apiKey)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	return s.credentials.Upsert(ctx, &models.Credential{
		Service:      service,
		EncryptedKey: sealed,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Get returns the plaintext key for a service.
func (s *Store) Get(ctx context.Context, service string) (string, error) {
	credential, err := s.credentials.Get(ctx, service)
	if err != nil {
		if persistence.IsCredentialNotFound(err) {
			return "", fmt.Errorf("%w: %s", ErrCredentialNotFound, service)
		}

		return "", err
	}

	return s.open(credential.EncryptedKey)
}

// Services lists the stored service names, never the keys.
func (s *Store) Services(ctx context.Context) ([]string, error) {
	credentials, err := s.credentials.List(ctx)
	if err != nil {
		return nil, err
	}

	services := make([]string, 0, len(credentials))
	for _, credential := range credentials {
		services = append(services, credential.Service)
	}

	return services, nil
}

func (s *Store) seal(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())

	_, err := rand.Read(nonce)
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *Store) open(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode credential: %w", err)
	}

	if len(sealed) < s.aead.NonceSize() {
		return "", errors.New("credential ciphertext is truncated")
	}

	nonce, ciphertext := sealed[:s.aead.NonceSize()], sealed[s.aead.NonceSize():]

	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt credential: %w", err)
	}

	return string(plaintext), nil
}

func loadOrCreateKey(keyFile string) ([]byte, error) {
	if keyFile == "" {
		keyFile = defaultKeyFile
	}

	key, err := os.ReadFile(keyFile)
	if err == nil {
		if len(key) != keySize {
			return nil, fmt.Errorf("key file %s holds %d bytes, want %d", keyFile, len(key), keySize)
		}

		return key, nil
	}

	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	key = make([]byte, keySize)

	_, err = rand.Read(key)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	err = os.WriteFile(keyFile, key, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to write key file: %w", err)
	}

	return key, nil
}
