// Package file provides file-based persistence for local development and tests.
// Every record is stored as one JSON document under root/<collection>/.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root string

	organizationRepo  *OrganizationRepository
	membershipRepo    *MembershipRepository
	workflowRepo      *WorkflowRepository
	executionRepo     *ExecutionRepository
	applicationRepo   *ApplicationRepository
	emailTemplateRepo *EmailTemplateRepository
	notificationRepo  *NotificationRepository
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)
	mu := &sync.RWMutex{}

	return &Persistence{
		root:             cleanRoot,
		organizationRepo: &OrganizationRepository{orgs: newCollection[models.Organization](cleanRoot, "organizations", mu)},
		membershipRepo:   &MembershipRepository{members: newCollection[models.Membership](cleanRoot, "user_roles", mu)},
		workflowRepo:     &WorkflowRepository{workflows: newCollection[models.Workflow](cleanRoot, "workflows", mu)},
		executionRepo: &ExecutionRepository{
			executions: newCollection[models.WorkflowExecution](cleanRoot, "workflow_executions", mu),
		},
		applicationRepo: &ApplicationRepository{applications: newCollection[Application](cleanRoot, "applications", mu)},
		emailTemplateRepo: &EmailTemplateRepository{
			templates: newCollection[models.EmailTemplate](cleanRoot, "email_templates", mu),
		},
		notificationRepo: &NotificationRepository{
			notifications: newCollection[models.Notification](cleanRoot, "notifications", mu),
			settings:      newCollection[models.NotificationSetting](cleanRoot, "notification_settings", mu),
			providers:     newCollection[models.EmailProvider](cleanRoot, "email_providers", mu),
			logs:          newCollection[models.EmailDeliveryLog](cleanRoot, "email_delivery_logs", mu),
		},
	}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	_, err := os.Stat(fp.root)
	if err != nil {
		return fmt.Errorf("file persistence root unavailable: %w", err)
	}

	return nil
}

func (fp *Persistence) OrganizationRepository() persistence.OrganizationRepository {
	return fp.organizationRepo
}

func (fp *Persistence) MembershipRepository() persistence.MembershipRepository {
	return fp.membershipRepo
}

func (fp *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return fp.workflowRepo
}

func (fp *Persistence) ExecutionRepository() persistence.ExecutionRepository {
	return fp.executionRepo
}

func (fp *Persistence) ApplicationRepository() persistence.ApplicationRepository {
	return fp.applicationRepo
}

// Applications exposes the concrete application store for seeding and inspection.
func (fp *Persistence) Applications() *ApplicationRepository {
	return fp.applicationRepo
}

func (fp *Persistence) EmailTemplateRepository() persistence.EmailTemplateRepository {
	return fp.emailTemplateRepo
}

func (fp *Persistence) NotificationRepository() persistence.NotificationRepository {
	return fp.notificationRepo
}

// collection is a directory of JSON documents keyed by file name.
// All collections of one Persistence share a lock.
type collection[T any] struct {
	dir string
	mu  *sync.RWMutex
}

func newCollection[T any](root, name string, mu *sync.RWMutex) collection[T] {
	return collection[T]{dir: filepath.Join(root, name), mu: mu}
}

func recordKey(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, part := range parts {
		escaped[i] = url.PathEscape(part)
	}

	return strings.Join(escaped, "__")
}

func (c collection[T]) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c collection[T]) get(key string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.read(c.path(key))
}

// read returns nil, nil for a missing document. Callers hold the lock.
func (c collection[T]) read(filePath string) (*T, error) {
	body, err := os.ReadFile(filepath.Clean(filePath))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	var record T

	err = json.Unmarshal(body, &record)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", filePath, err)
	}

	return &record, nil
}

func (c collection[T]) put(key string, record *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.write(key, record)
}

func (c collection[T]) write(key string, record *T) error {
	err := os.MkdirAll(c.dir, 0o750)
	if err != nil {
		return fmt.Errorf("failed to create %s directory: %w", c.dir, err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	err = os.WriteFile(c.path(key), data, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return nil
}

// update applies fn to the stored document under the write lock.
// A missing document is passed as nil; fn returning nil leaves the store untouched.
func (c collection[T]) update(key string, fn func(current *T) *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.read(c.path(key))
	if err != nil {
		return err
	}

	next := fn(current)
	if next == nil {
		return nil
	}

	return c.write(key, next)
}

func (c collection[T]) all() ([]*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	files, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.dir, err)
	}

	records := make([]*T, 0, len(files))

	for _, file := range files {
		record, err := c.read(file)
		if err != nil {
			return nil, err
		}

		if record != nil {
			records = append(records, record)
		}
	}

	return records, nil
}
