//go:build browser

package browser_test

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	web "aula/internal/adapters/http"
	"aula/internal/adapters/storage"
	"aula/internal/adapters/storage/preference"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	Store   preference.Store
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// newTestApp serves the project's site directory over a temp SQLite store.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	store := preference.NewSQLiteStore(db)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	ctx, cancel := context.WithCancel(context.Background())
	mux, err := web.NewMux(ctx, web.Options{
		Site:   os.DirFS(filepath.Join(findProjectRoot(t), "site")),
		Store:  store,
		Secret: []byte("browser-test-secret-0123456789abcdef"),
		TrustedOrigins: []string{
			fmt.Sprintf("127.0.0.1:%d", port),
			fmt.Sprintf("localhost:%d", port),
		},
		WelcomeDelay: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("failed to build mux: %v", err)
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		Store:   store,
		Server:  srv,
		PW:      pw,
		Browser: browser,
	}
	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		cancel()
		db.Close()
	})
	return app
}

// newPage creates a new browser page (tab) in its own context, so each page
// gets a fresh profile cookie.
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	bctx, err := a.Browser.NewContext()
	if err != nil {
		t.Fatalf("failed to create browser context: %v", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { bctx.Close() })
	return page
}

// goto navigates and fails the test on error.
func (a *testApp) open(t *testing.T, page playwright.Page, path string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + path); err != nil {
		t.Fatalf("failed to navigate to %s: %v", path, err)
	}
}

// findProjectRoot walks up from the test directory to the go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("go.mod not found")
		}
		dir = parent
	}
}
