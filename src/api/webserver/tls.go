package webserver

import (
	"crypto/tls"
	"log"
	"os"
	"sync"
	"time"
)

// TLSReloader serves the current key pair and re-reads it from disk when
// the files change, so certificate rotation never needs a restart.
type TLSReloader struct {
	certFile string
	keyFile  string

	mu      sync.RWMutex
	cert    *tls.Certificate
	lastMod time.Time
}

func NewTLSReloader(certFile, keyFile string) (*TLSReloader, error) {
	r := &TLSReloader{certFile: certFile, keyFile: keyFile}
	if err := r.reload(); err != nil {
		return nil, err
	}
	go r.watch()
	return r, nil
}

func (r *TLSReloader) reload() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return err
	}

	mod := r.lastMod
	if info, err := os.Stat(r.certFile); err == nil && info.ModTime().After(mod) {
		mod = info.ModTime()
	}
	if info, err := os.Stat(r.keyFile); err == nil && info.ModTime().After(mod) {
		mod = info.ModTime()
	}

	r.mu.Lock()
	r.cert = &cert
	r.lastMod = mod
	r.mu.Unlock()
	return nil
}

func (r *TLSReloader) watch() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		changed := false
		for _, f := range []string{r.certFile, r.keyFile} {
			info, err := os.Stat(f)
			if err != nil {
				log.Printf("tls: stat %s: %v", f, err)
				changed = false
				break
			}
			if info.ModTime().After(r.lastMod) {
				changed = true
			}
		}
		if !changed {
			continue
		}
		log.Printf("tls: certificate files changed, reloading")
		if err := r.reload(); err != nil {
			log.Printf("tls: reload: %v", err)
		}
	}
}

func (r *TLSReloader) GetConfig() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		GetCertificate: func(_ *tls.ClientHelloInfo) (*tls.Certificate, error) {
			r.mu.RLock()
			defer r.mu.RUnlock()
			return r.cert, nil
		},
	}
}
