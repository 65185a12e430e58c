package glog

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
)

// compressedPubKey is the 33-byte SEC1-compressed secp256k1 client public
// key that keys the shared-secret cache (spec §4.3).
type compressedPubKey [33]byte

// sharedSecret is the raw 32-byte X-coordinate of an ECDH point, unhashed
// (spec §4.3 is explicit: "raw, no KDF").
type sharedSecret [32]byte

// keyAgreement owns the server's static private key and the per-file cache
// of derived shared secrets, keyed by the client's compressed public key
// (spec §9 "Key cache", §3 "Lifecycles").
type keyAgreement struct {
	mu    sync.Mutex
	priv  *btcec.PrivateKey
	cache map[compressedPubKey]sharedSecret
}

// newKeyAgreement builds the cache. hexKey is the 64-character hex encoding
// of the server's 32-byte private key; an empty string means no key was
// configured, in which case encrypted entries fail with ErrCipherNotReady.
func newKeyAgreement(hexKey string) (*keyAgreement, error) {
	ka := &keyAgreement{cache: make(map[compressedPubKey]sharedSecret)}
	if hexKey == "" {
		return ka, nil
	}
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("glog: server private key is not valid hex: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("glog: server private key must be 32 bytes, got %d", len(raw))
	}
	priv, _ := btcec.PrivKeyFromBytes(raw)
	ka.priv = priv
	return ka, nil
}

func (ka *keyAgreement) ready() bool {
	return ka.priv != nil
}

// deriveSharedKey implements spec §4.3's derive_shared_key: parse the
// compressed point, ECDH scalar-multiply against the server's private key,
// and cache the raw X-coordinate under the exact compressed form.
func (ka *keyAgreement) deriveSharedKey(pub compressedPubKey) (sharedSecret, error) {
	ka.mu.Lock()
	defer ka.mu.Unlock()

	if cached, ok := ka.cache[pub]; ok {
		return cached, nil
	}
	if ka.priv == nil {
		return sharedSecret{}, ErrCipherNotReady
	}

	clientPub, err := btcec.ParsePubKey(pub[:])
	if err != nil {
		return sharedSecret{}, &PublicKeyDecompressError{Err: err}
	}

	privECDSA := ka.priv.ToECDSA()
	pubECDSA := clientPub.ToECDSA()
	sharedX, _ := pubECDSA.Curve.ScalarMult(pubECDSA.X, pubECDSA.Y, privECDSA.D.Bytes())

	var secret sharedSecret
	xb := sharedX.Bytes()
	copy(secret[32-len(xb):], xb)

	ka.cache[pub] = secret
	return secret, nil
}

// decrypt implements spec §4.3's decrypt: derive the AES-128 key from the
// shared secret's first 16 bytes, then AES-128-CFB decrypt ct in place of a
// fresh plaintext buffer (full-block/"CFB-128" feedback, no padding).
func (ka *keyAgreement) decrypt(pub compressedPubKey, iv []byte, ct []byte) ([]byte, error) {
	if len(iv) != aes.BlockSize {
		return nil, &DecryptError{Err: fmt.Errorf("iv must be %d bytes, got %d", aes.BlockSize, len(iv))}
	}

	secret, err := ka.deriveSharedKey(pub)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(secret[:16])
	if err != nil {
		return nil, &DecryptError{Err: err}
	}

	pt := make([]byte, len(ct))
	stream := cipher.NewCFBDecrypter(block, iv)
	stream.XORKeyStream(pt, ct)
	return pt, nil
}
