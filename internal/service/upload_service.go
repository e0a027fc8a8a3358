package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/adeemgetnoor/customer-profile-manager/internal/shopify"
	"github.com/adeemgetnoor/customer-profile-manager/pkg/errors"
)

// UploadService turns a base64 image payload into a durable file reference on
// the customer's custom.profile_image metafield, via Shopify's staged upload
// protocol. The five steps (decode, stage, upload, register, attach) run
// strictly in order; a failure aborts the rest with no rollback, so a failure
// after the binary upload can leave an orphaned file behind.
type UploadService struct {
	gql        GraphQLExecutor
	httpClient *http.Client
	logger     *zap.Logger
}

// NewUploadService creates a new upload service
func NewUploadService(gql GraphQLExecutor, logger *zap.Logger) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{
		gql:        gql,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

// UploadProfileImage runs the full pipeline and returns the new file GID.
func (s *UploadService) UploadProfileImage(ctx context.Context, customerID, imageData string) (string, error) {
	if customerID == "" {
		return "", &errors.ErrValidation{Message: "customer_id is required"}
	}
	if imageData == "" {
		return "", &errors.ErrValidation{Message: "image_url is required"}
	}

	raw, err := decodeImagePayload(imageData)
	if err != nil {
		return "", &errors.ErrValidation{Message: fmt.Sprintf("invalid image payload: %v", err)}
	}

	filename := fmt.Sprintf("profile-%s-%d.jpg", customerID, time.Now().Unix())

	target, err := s.stage(ctx, filename)
	if err != nil {
		return "", err
	}

	if err := s.upload(ctx, target, filename, raw); err != nil {
		return "", err
	}

	fileID, err := s.register(ctx, target.ResourceURL)
	if err != nil {
		return "", err
	}

	if err := s.attach(ctx, customerID, fileID); err != nil {
		return "", err
	}

	s.logger.Info("Profile image uploaded",
		zap.String("customer_id", customerID),
		zap.String("file_id", fileID))
	return fileID, nil
}

// decodeImagePayload strips an optional data-URI prefix and base64-decodes the rest.
func decodeImagePayload(imageData string) ([]byte, error) {
	payload := imageData
	if idx := strings.Index(payload, "base64,"); idx >= 0 {
		payload = payload[idx+len("base64,"):]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	return raw, nil
}

// stage requests a signed upload target for the image.
func (s *UploadService) stage(ctx context.Context, filename string) (*shopify.StagedUploadTarget, error) {
	input := []shopify.StagedUploadInput{
		{
			Resource:   "IMAGE",
			Filename:   filename,
			MimeType:   "image/jpeg",
			HTTPMethod: "POST",
		},
	}
	resp, err := s.gql.Execute(ctx, shopify.StagedUploadsCreateMutation, map[string]interface{}{
		"input": input,
	})
	if err != nil {
		return nil, fmt.Errorf("stagedUploadsCreate: %w", err)
	}

	var result struct {
		StagedUploadsCreate struct {
			StagedTargets []shopify.StagedUploadTarget `json:"stagedTargets"`
			UserErrors    []shopify.UserError          `json:"userErrors"`
		} `json:"stagedUploadsCreate"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse stagedUploadsCreate response: %w", err)
	}
	if len(result.StagedUploadsCreate.UserErrors) > 0 {
		return nil, &errors.ErrShopifyUserErrors{Operation: "stagedUploadsCreate", Errors: result.StagedUploadsCreate.UserErrors}
	}
	if len(result.StagedUploadsCreate.StagedTargets) == 0 || result.StagedUploadsCreate.StagedTargets[0].URL == "" {
		return nil, fmt.Errorf("stagedUploadsCreate returned no upload target")
	}
	return &result.StagedUploadsCreate.StagedTargets[0], nil
}

// upload POSTs the binary to the signed URL. The signed parameters must be
// written as form fields, in order, before the file part.
func (s *UploadService) upload(ctx context.Context, target *shopify.StagedUploadTarget, filename string, raw []byte) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, p := range target.Parameters {
		if err := writer.WriteField(p.Name, p.Value); err != nil {
			return fmt.Errorf("write upload parameter %q: %w", p.Name, err)
		}
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(raw); err != nil {
		return fmt.Errorf("write file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, &body)
	if err != nil {
		return fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("staged upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("staged upload returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// register creates a permanent file record for the uploaded resource.
func (s *UploadService) register(ctx context.Context, resourceURL string) (string, error) {
	files := []shopify.FileCreateInput{
		{
			OriginalSource: resourceURL,
			ContentType:    "IMAGE",
		},
	}
	resp, err := s.gql.Execute(ctx, shopify.FileCreateMutation, map[string]interface{}{
		"files": files,
	})
	if err != nil {
		return "", fmt.Errorf("fileCreate: %w", err)
	}

	var result struct {
		FileCreate struct {
			Files []struct {
				ID string `json:"id"`
			} `json:"files"`
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"fileCreate"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return "", fmt.Errorf("parse fileCreate response: %w", err)
	}
	if len(result.FileCreate.UserErrors) > 0 {
		return "", &errors.ErrShopifyUserErrors{Operation: "fileCreate", Errors: result.FileCreate.UserErrors}
	}
	if len(result.FileCreate.Files) == 0 || result.FileCreate.Files[0].ID == "" {
		return "", fmt.Errorf("fileCreate returned no file id")
	}
	return result.FileCreate.Files[0].ID, nil
}

// attach points the custom.profile_image metafield at the new file.
func (s *UploadService) attach(ctx context.Context, customerID, fileID string) error {
	metafields := []shopify.MetafieldsSetInput{
		{
			OwnerID:   shopify.CustomerGID(customerID),
			Namespace: metafieldNamespace,
			Key:       "profile_image",
			Type:      "file_reference",
			Value:     fileID,
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
