// Package cartclient is the client-side mirror of a server cart. It caches
// the last-known server state and replaces it wholesale with the server's
// response after every operation — the client never predicts outcomes.
package cartclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"storefront-cart/internal/domain"
)

const defaultRefreshInterval = 5 * time.Second

// Client mirrors one cart identified by the session cookie, or by a wallet
// id once SetWalletID is called.
type Client struct {
	baseURL      string
	httpc        *http.Client
	logger       *log.Logger
	refreshEvery time.Duration

	mu       sync.Mutex
	state    domain.CartState
	walletID string

	resetCh chan struct{}
	stopCh  chan struct{}
	stopped sync.Once
}

// New builds a Client against the given server base URL. The client keeps a
// cookie jar so the minted guest session survives across requests.
func New(baseURL string, logger *log.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cartclient: cookie jar: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL:      baseURL,
		httpc:        &http.Client{Jar: jar, Timeout: 10 * time.Second},
		logger:       logger,
		refreshEvery: defaultRefreshInterval,
		state:        domain.EmptyCart(),
		resetCh:      make(chan struct{}, 1),
		stopCh:       make(chan struct{}),
	}, nil
}

// State returns the cached last-known server cart.
func (c *Client) State() domain.CartState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// AddItem adds quantity of the product and replaces local state with the
// server's authoritative cart.
func (c *Client) AddItem(ctx context.Context, productID int64, quantity int) error {
	return c.mutate(ctx, "/api/cart/add", map[string]any{"id": productID, "quantity": quantity})
}

// RemoveItem removes the product from the cart.
func (c *Client) RemoveItem(ctx context.Context, productID int64) error {
	return c.mutate(ctx, "/api/cart/remove", map[string]any{"id": productID})
}

// UpdateQuantity sets the product's quantity. A 404 is a benign no-op: the
// item may have been removed between render and this round-trip.
func (c *Client) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	resp, err := c.post(ctx, "/api/cart/update-quantity", map[string]any{"id": productID, "quantity": quantity})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return c.applyResponse(resp)
}

// ClearCart resets the server cart to empty.
func (c *Client) ClearCart(ctx context.Context) error {
	resp, err := c.post(ctx, "/api/cart/clear", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.applyResponse(resp)
}

// FetchCart refreshes local state from the server.
func (c *Client) FetchCart(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/api/cart/storage"), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.applyResponse(resp)
}

// ToggleCart flips the local drawer state. No network.
func (c *Client) ToggleCart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.IsOpen = !c.state.IsOpen
}

// CloseCart closes the local drawer and restarts the background refresh
// timer so a stale pending tick does not fire immediately.
func (c *Client) CloseCart() {
	c.mu.Lock()
	c.state.IsOpen = false
	c.mu.Unlock()

	select {
	case c.resetCh <- struct{}{}:
	default:
	}
}

// SetWalletID switches which identifier subsequent operations target and
// refetches immediately. An empty id falls back to the guest session.
func (c *Client) SetWalletID(ctx context.Context, walletID string) error {
	c.mu.Lock()
	c.walletID = walletID
	c.mu.Unlock()
	return c.FetchCart(ctx)
}

// StartRefresh launches the background poll: while the cart drawer is
// closed, refetch on an interval (5 seconds by default) to catch
// out-of-band changes from other tabs or devices. Refresh is suspended
// while the drawer is open. Stop with Close; failures are logged, never
// surfaced.
func (c *Client) StartRefresh(ctx context.Context) {
	interval := c.refreshEvery
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stopCh:
				return
			case <-c.resetCh:
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(interval)
			case <-timer.C:
				if !c.State().IsOpen {
					if err := c.FetchCart(ctx); err != nil {
						c.logger.Printf("cartclient: refresh error=%v", err)
					}
				}
				timer.Reset(interval)
			}
		}
	}()
}

// Close stops the background refresh.
func (c *Client) Close() {
	c.stopped.Do(func() { close(c.stopCh) })
}

func (c *Client) mutate(ctx context.Context, path string, body map[string]any) error {
	resp, err := c.post(ctx, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.applyResponse(resp)
}

func (c *Client) post(ctx context.Context, path string, body map[string]any) (*http.Response, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpc.Do(req)
}

// applyResponse replaces the cached cart with the server response, keeping
// the local-only drawer state.
func (c *Client) applyResponse(resp *http.Response) error {
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cartclient: %s: unexpected status %d", resp.Request.URL.Path, resp.StatusCode)
	}

	var state domain.CartState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return fmt.Errorf("cartclient: decode response: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	state.IsOpen = c.state.IsOpen
	if state.Items == nil {
		state.Items = []domain.CartItem{}
	}
	c.state = state
	return nil
}

func (c *Client) endpoint(path string) string {
	u := c.baseURL + path
	c.mu.Lock()
	walletID := c.walletID
	c.mu.Unlock()
	if walletID != "" {
		u += "?walletId=" + url.QueryEscape(walletID)
	}
	return u
}
