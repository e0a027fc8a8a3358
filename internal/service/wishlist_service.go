package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/adeemgetnoor/customer-profile-manager/internal/domain"
	"github.com/adeemgetnoor/customer-profile-manager/internal/products"
	"github.com/adeemgetnoor/customer-profile-manager/internal/shopify"
	"github.com/adeemgetnoor/customer-profile-manager/pkg/errors"
)

const (
	metafieldNamespace = "custom"
	wishlistKey        = "wishlist"
	wishlistType       = "multi_line_text_field"
)

// GraphQLExecutor is the slice of the Shopify client the services need.
type GraphQLExecutor interface {
	Execute(ctx context.Context, query string, variables map[string]interface{}) (*shopify.GraphQLResponse, error)
}

// ProductLookup resolves products for wishlist enrichment.
type ProductLookup interface {
	ByID(ctx context.Context, id string) (*products.Product, error)
	ByHandle(ctx context.Context, handle string) (*products.Product, error)
}

// WishlistService maintains the customer's custom.wishlist metafield as a
// deduplicated array of product references, hiding the legacy stored shapes
// from callers.
type WishlistService struct {
	gql      GraphQLExecutor
	products ProductLookup
	logger   *zap.Logger
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(gql GraphQLExecutor, lookup ProductLookup, logger *zap.Logger) *WishlistService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WishlistService{
		gql:      gql,
		products: lookup,
		logger:   logger,
	}
}

// Get returns the customer's wishlist. Entries with an id but no handle get the
// handle backfilled from a product lookup; if that changed anything the updated
// array is written back best-effort (a write failure is logged, never surfaced).
// With expand set, entries missing both title and handle are enriched in-memory.
func (s *WishlistService) Get(ctx context.Context, customerID string, expand bool) ([]domain.WishlistEntry, error) {
	if customerID == "" {
		return nil, &errors.ErrValidation{Message: "customer_id is required"}
	}

	entries, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if expand {
		for i := range entries {
			if entries[i].Title != "" || entries[i].Handle != "" || entries[i].ID == "" {
				continue
			}
			p, err := s.products.ByID(ctx, entries[i].ID)
			if err != nil {
				s.logger.Debug("Wishlist expand lookup failed", zap.String("product_id", entries[i].ID), zap.Error(err))
				continue
			}
			fillGaps(&entries[i], p)
		}
	}

	// Handle backfill runs on every read so legacy id-only entries converge to
	// the full shape over time.
	changed := false
	for i := range entries {
		if entries[i].ID == "" || entries[i].Handle != "" {
			continue
		}
		p, err := s.products.ByID(ctx, entries[i].ID)
		if err != nil {
			s.logger.Debug("Wishlist handle backfill lookup failed", zap.String("product_id", entries[i].ID), zap.Error(err))
			continue
		}
		if fillGaps(&entries[i], p) {
			changed = true
		}
	}

	if changed {
		if err := s.persist(ctx, customerID, entries); err != nil {
			s.logger.Warn("Best-effort wishlist backfill write failed",
				zap.String("customer_id", customerID),
				zap.Error(err))
		}
	}

	return entries, nil
}

// Add appends a product to the wishlist unless an entry for the same product is
// already present, and persists the full array.
func (s *WishlistService) Add(ctx context.Context, customerID string, sel domain.ProductSelector) ([]domain.WishlistEntry, error) {
	if customerID == "" {
		return nil, &errors.ErrValidation{Message: "customer_id is required"}
	}
	if sel.Empty() {
		return nil, &errors.ErrValidation{Message: "product, product_handle or product_id is required"}
	}

	entries, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	entry := s.resolveSelector(ctx, sel)

	exists := false
	for _, e := range entries {
		if domain.SameProduct(e, entry) {
			exists = true
			break
		}
	}
	if !exists {
		entries = append(entries, entry)
	}

	if err := s.persist(ctx, customerID, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Remove filters out entries matching the selector's handle or id and persists
// the result. Entries carrying neither an id nor a handle are never removed.
func (s *WishlistService) Remove(ctx context.Context, customerID string, sel domain.ProductSelector) ([]domain.WishlistEntry, error) {
	if customerID == "" {
		return nil, &errors.ErrValidation{Message: "customer_id is required"}
	}
	if sel.Empty() {
		return nil, &errors.ErrValidation{Message: "product, product_handle or product_id is required"}
	}

	entries, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	// Discrete fields win over the product object when both are given.
	handleToRemove, idToRemove := "", ""
	if sel.Product != nil {
		handleToRemove = sel.Product.Handle
		idToRemove = sel.Product.ID
	}
	if sel.ProductHandle != "" {
		handleToRemove = sel.ProductHandle
	}
	if sel.ProductID != "" {
		idToRemove = sel.ProductID
	}

	kept := make([]domain.WishlistEntry, 0, len(entries))
	for _, e := range entries {
		matchesHandle := handleToRemove != "" && e.Handle != "" && e.Handle == handleToRemove
		matchesID := idToRemove != "" && e.ID != "" && e.ID == idToRemove
		if matchesHandle || matchesID {
			continue
		}
		kept = append(kept, e)
	}

	if err := s.persist(ctx, customerID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// AttachHandles repairs id/handle pairings from the given mappings: handle
// mappings merge looked-up product data into the matching entry (or append a
// new one), id-only mappings backfill the handle on the entry with that id.
// The array is written back only when something changed, and that write is
// best-effort.
func (s *WishlistService) AttachHandles(ctx context.Context, customerID string, mappings []domain.HandleMapping) ([]domain.WishlistEntry, error) {
	if customerID == "" {
		return nil, &errors.ErrValidation{Message: "customer_id is required"}
	}
	if len(mappings) == 0 {
		return nil, &errors.ErrValidation{Message: "mappings is required"}
	}

	entries, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	changed := false
	for _, m := range mappings {
		switch {
		case m.Handle != "":
			fetched := domain.WishlistEntry{ID: m.ID, Handle: m.Handle}
			if p, err := s.products.ByHandle(ctx, m.Handle); err != nil {
				s.logger.Debug("Attach-handles lookup by handle failed", zap.String("handle", m.Handle), zap.Error(err))
			} else {
				fillGaps(&fetched, p)
			}

			idx := -1
			if m.ID != "" {
				idx = indexByID(entries, m.ID)
			}
			if idx < 0 {
				idx = indexByHandle(entries, fetched.Handle)
			}

			if idx >= 0 {
				if attachFetched(&entries[idx], fetched) {
					changed = true
				}
				continue
			}

			dup := false
			for _, e := range entries {
				if domain.SameProduct(e, fetched) {
					dup = true
					break
				}
			}
			if !dup {
				entries = append(entries, fetched)
				changed = true
			}

		case m.ID != "":
			p, err := s.products.ByID(ctx, m.ID)
			if err != nil || p.Handle == "" {
				s.logger.Debug("Attach-handles lookup by id failed", zap.String("product_id", m.ID), zap.Error(err))
				continue
			}
			if idx := indexByID(entries, m.ID); idx >= 0 && entries[idx].Handle != p.Handle {
				entries[idx].Handle = p.Handle
				fillGaps(&entries[idx], p)
				changed = true
			}
		}
	}

	if changed {
		if err := s.persist(ctx, customerID, entries); err != nil {
			s.logger.Warn("Best-effort attach-handles write failed",
				zap.String("customer_id", customerID),
				zap.Error(err))
		}
	}

	return entries, nil
}

// resolveSelector turns an add selector into the entry to store. A product_id
// selector is enriched via lookup, falling back to a bare id entry when the
// lookup fails.
func (s *WishlistService) resolveSelector(ctx context.Context, sel domain.ProductSelector) domain.WishlistEntry {
	if sel.Product != nil {
		return *sel.Product
	}
	if sel.ProductHandle != "" {
		return domain.WishlistEntry{Handle: sel.ProductHandle}
	}
	entry := domain.WishlistEntry{ID: sel.ProductID}
	p, err := s.products.ByID(ctx, sel.ProductID)
	if err != nil {
		s.logger.Debug("Wishlist add lookup failed, storing bare id", zap.String("product_id", sel.ProductID), zap.Error(err))
		return entry
	}
	fillGaps(&entry, p)
	return entry
}

// load fetches and normalizes the stored wishlist. A missing customer, missing
// metafield or malformed stored value all yield an empty list.
func (s *WishlistService) load(ctx context.Context, customerID string) ([]domain.WishlistEntry, error) {
	resp, err := s.gql.Execute(ctx, shopify.CustomerMetafieldsQuery, map[string]interface{}{
		"id": shopify.CustomerGID(customerID),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch customer metafields: %w", err)
	}

	var result struct {
		Customer *struct {
			Metafields struct {
				Edges []struct {
					Node struct {
						Key   string `json:"key"`
						Value string `json:"value"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"metafields"`
		} `json:"customer"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse customer metafields response: %w", err)
	}
	if result.Customer == nil {
		return []domain.WishlistEntry{}, nil
	}

	for _, edge := range result.Customer.Metafields.Edges {
		if edge.Node.Key == wishlistKey {
			return domain.ParseWishlist(edge.Node.Value), nil
		}
	}
	return []domain.WishlistEntry{}, nil
}

// persist writes the full wishlist array back to the customer metafield.
func (s *WishlistService) persist(ctx context.Context, customerID string, entries []domain.WishlistEntry) error {
	metafields := []shopify.MetafieldsSetInput{
		{
			OwnerID:   shopify.CustomerGID(customerID),
			Namespace: metafieldNamespace,
			Key:       wishlistKey,
			Type:      wishlistType,
			Value:     domain.EncodeWishlist(entries),
		},
	}
	resp, err := s.gql.Execute(ctx, shopify.MetafieldsSetMutation, map[string]interface{}{
		"metafields": metafields,
	})
	if err != nil {
		return fmt.Errorf("metafieldsSet: %w", err)
	}

	var result struct {
		MetafieldsSet struct {
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"metafieldsSet"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("parse metafieldsSet response: %w", err)
	}
	if len(result.MetafieldsSet.UserErrors) > 0 {
		return &errors.ErrShopifyUserErrors{Operation: "metafieldsSet", Errors: result.MetafieldsSet.UserErrors}
	}
	return nil
}

// fillGaps copies lookup fields into an entry without overwriting anything the
// entry already has. Reports whether the entry changed.
func fillGaps(e *domain.WishlistEntry, p *products.Product) bool {
	changed := false
	if e.ID == "" && p.ID != "" {
		e.ID = p.ID
		changed = true
	}
	if e.Handle == "" && p.Handle != "" {
		e.Handle = p.Handle
		changed = true
	}
	if e.Title == "" && p.Title != "" {
		e.Title = p.Title
		changed = true
	}
	if e.Image == "" && p.Image != "" {
		e.Image = p.Image
		changed = true
	}
	return changed
}

// attachFetched merges an attach-handles result into an existing entry. Unlike
// fillGaps it corrects a stale handle, since repairing pairings is the whole
// point of the operation.
func attachFetched(e *domain.WishlistEntry, fetched domain.WishlistEntry) bool {
	changed := false
	if fetched.Handle != "" && e.Handle != fetched.Handle {
		e.Handle = fetched.Handle
		changed = true
	}
	if e.ID == "" && fetched.ID != "" {
		e.ID = fetched.ID
		changed = true
	}
	if e.Title == "" && fetched.Title != "" {
		e.Title = fetched.Title
		changed = true
	}
	if e.Image == "" && fetched.Image != "" {
		e.Image = fetched.Image
		changed = true
	}
	return changed
}

func indexByID(entries []domain.WishlistEntry, id string) int {
	for i, e := range entries {
		if e.ID != "" && e.ID == id {
			return i
		}
	}
	return -1
}

func indexByHandle(entries []domain.WishlistEntry, handle string) int {
	if handle == "" {
		return -1
	}
	for i, e := range entries {
		if e.Handle == handle {
			return i
		}
	}
	return -1
}
