package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docvault/internal/config"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

var folderNamePattern = regexp.MustCompile(`^[^/]+$`)

type folderService struct {
	folderRepo repositories.FolderRepository
	docRepo    repositories.DocumentRepository
	purger     *DocumentPurger
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	docRepo repositories.DocumentRepository,
	purger *DocumentPurger,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		docRepo:    docRepo,
		purger:     purger,
		txManager:  txManager,
		logger:     logger,
	}
}

// CreateFolder creates a new folder
func (s *folderService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	// Normalize empty string to nil for root-level folders
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := s.validateName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// A parent that does not exist, or belongs to someone else, is invalid
	// input rather than a missing resource
	if req.ParentID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.ParentID, req.OwnerID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent folder does not exist", domain.ErrValidation)
			}
			return nil, err
		}
	}

	if err := s.checkSiblingName(ctx, req.OwnerID, req.ParentID, req.Name, ""); err != nil {
		return nil, err
	}

	folder := &models.Folder{
		OwnerID:   req.OwnerID,
		ParentID:  req.ParentID,
		Name:      req.Name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.attachPath(ctx, folder)

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", folder.OwnerID,
		"parent_id", folder.ParentID,
		"path", folder.Path,
	)

	return folder, nil
}

// GetFolder retrieves a folder with its computed path
func (s *folderService) GetFolder(ctx context.Context, id, ownerID string) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	s.attachPath(ctx, folder)
	return folder, nil
}

// RenameFolder changes a folder's name
func (s *folderService) RenameFolder(ctx context.Context, id, ownerID, name string) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if err := s.validateName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.checkSiblingName(ctx, ownerID, folder.ParentID, name, folder.ID); err != nil {
		return nil, err
	}

	folder.Name = name
	folder.UpdatedAt = time.Now()
	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.attachPath(ctx, folder)

	s.logger.Info("folder renamed", "id", folder.ID, "name", folder.Name)
	return folder, nil
}

// MoveFolder reparents a folder. The cycle check runs inside the move
// transaction so a concurrent move cannot slip a cycle past it.
func (s *folderService) MoveFolder(ctx context.Context, id, ownerID string, newParentID *string) (*models.Folder, error) {
	if newParentID != nil && *newParentID == "" {
		newParentID = nil
	}

	var folder *models.Folder
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		folder, err = s.folderRepo.GetByID(txCtx, id, ownerID)
		if err != nil {
			return err
		}

		if newParentID != nil {
			if _, err := s.folderRepo.GetByID(txCtx, *newParentID, ownerID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("%w: destination folder does not exist", domain.ErrValidation)
				}
				return err
			}
			if err := s.checkNoCycle(txCtx, id, *newParentID, ownerID); err != nil {
				return err
			}
		}

		if err := s.checkSiblingName(txCtx, ownerID, newParentID, folder.Name, folder.ID); err != nil {
			return err
		}

		folder.ParentID = newParentID
		folder.UpdatedAt = time.Now()
		return s.folderRepo.Update(txCtx, folder)
	})
	if err != nil {
		return nil, err
	}

	s.attachPath(ctx, folder)

	s.logger.Info("folder moved",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)
	return folder, nil
}

// DeleteFolder removes a folder using the given strategy
func (s *folderService) DeleteFolder(ctx context.Context, id, ownerID string, strategy models.DeleteStrategy) error {
	if !strategy.Valid() {
		return fmt.Errorf("%w: unknown delete strategy %q", domain.ErrValidation, strategy)
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		folder, err := s.folderRepo.GetByID(txCtx, id, ownerID)
		if err != nil {
			return err
		}

		switch strategy {
		case models.DeleteCascade:
			if err := s.deleteSubtree(txCtx, ownerID, folder.ID); err != nil {
				return err
			}
		case models.DeleteReparent:
			if err := s.reparentChildren(txCtx, ownerID, folder); err != nil {
				return err
			}
		}

		return s.folderRepo.Delete(txCtx, folder.ID, ownerID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted", "id", id, "owner_id", ownerID, "strategy", strategy)
	return nil
}

// deleteSubtree removes every descendant folder and purges their documents,
// depth first
func (s *folderService) deleteSubtree(ctx context.Context, ownerID, folderID string) error {
	children, err := s.folderRepo.ListChildren(ctx, ownerID, &folderID)
	if err != nil {
		return fmt.Errorf("listing child folders: %w", err)
	}
	for _, child := range children {
		if err := s.deleteSubtree(ctx, ownerID, child.ID); err != nil {
			return err
		}
		if err := s.folderRepo.Delete(ctx, child.ID, ownerID); err != nil {
			return fmt.Errorf("deleting folder %q: %w", child.Name, err)
		}
	}

	docs, err := s.docRepo.ListByFolder(ctx, ownerID, &folderID)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}
	for _, doc := range docs {
		if err := s.purger.purgeDocument(ctx, doc.ID); err != nil {
			return fmt.Errorf("purging document %q: %w", doc.Name, err)
		}
	}
	return nil
}

// reparentChildren detaches immediate children to the folder's own parent
func (s *folderService) reparentChildren(ctx context.Context, ownerID string, folder *models.Folder) error {
	children, err := s.folderRepo.ListChildren(ctx, ownerID, &folder.ID)
	if err != nil {
		return fmt.Errorf("listing child folders: %w", err)
	}
	for i := range children {
		children[i].ParentID = folder.ParentID
		children[i].UpdatedAt = time.Now()
		if err := s.folderRepo.Update(ctx, &children[i]); err != nil {
			return fmt.Errorf("reparenting folder %q: %w", children[i].Name, err)
		}
	}

	docs, err := s.docRepo.ListByFolder(ctx, ownerID, &folder.ID)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}
	for i := range docs {
		docs[i].FolderID = folder.ParentID
		docs[i].UpdatedAt = time.Now()
		if err := s.docRepo.Update(ctx, &docs[i]); err != nil {
			return fmt.Errorf("reparenting document %q: %w", docs[i].Name, err)
		}
	}
	return nil
}

// ListContents lists child folders and documents
func (s *folderService) ListContents(ctx context.Context, ownerID string, folderID *string) (*services.FolderContents, error) {
	if folderID != nil && *folderID == "" {
		folderID = nil
	}

	var folder *models.Folder
	if folderID != nil {
		var err error
		folder, err = s.folderRepo.GetByID(ctx, *folderID, ownerID)
		if err != nil {
			return nil, err
		}
		s.attachPath(ctx, folder)
	}

	childFolders, err := s.folderRepo.ListChildren(ctx, ownerID, folderID)
	if err != nil {
		return nil, fmt.Errorf("listing child folders: %w", err)
	}

	docs, err := s.docRepo.ListByFolder(ctx, ownerID, folderID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	return &services.FolderContents{
		Folder:    folder,
		Folders:   childFolders,
		Documents: docs,
	}, nil
}

// Tree builds the owner's nested folder forest from two flat queries
func (s *folderService) Tree(ctx context.Context, ownerID string) ([]services.TreeNode, error) {
	folders, err := s.folderRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}
	docs, err := s.docRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	docsByFolder := make(map[string][]models.Document)
	var rootDocs []models.Document
	for _, doc := range docs {
		if doc.FolderID == nil {
			rootDocs = append(rootDocs, doc)
			continue
		}
		docsByFolder[*doc.FolderID] = append(docsByFolder[*doc.FolderID], doc)
	}

	childrenByParent := make(map[string][]models.Folder)
	var roots []models.Folder
	for _, f := range folders {
		if f.ParentID == nil {
			roots = append(roots, f)
			continue
		}
		childrenByParent[*f.ParentID] = append(childrenByParent[*f.ParentID], f)
	}

	var build func(f models.Folder) services.TreeNode
	build = func(f models.Folder) services.TreeNode {
		node := services.TreeNode{
			Folder:    f,
			Children:  []services.TreeNode{},
			Documents: docsByFolder[f.ID],
		}
		for _, child := range childrenByParent[f.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	nodes := make([]services.TreeNode, 0, len(roots)+1)
	for _, f := range roots {
		nodes = append(nodes, build(f))
	}
	if len(rootDocs) > 0 {
		// Root-level documents ride along as a synthetic node with no folder
		nodes = append(nodes, services.TreeNode{Documents: rootDocs, Children: []services.TreeNode{}})
	}
	return nodes, nil
}

// validateName validates a folder name
func (s *folderService) validateName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxFolderNameLength),
		validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
	)
}

// checkSiblingName rejects a duplicate name among the siblings at the target
// location. excludeID skips the folder itself on rename/move.
func (s *folderService) checkSiblingName(ctx context.Context, ownerID string, parentID *string, name, excludeID string) error {
	siblings, err := s.folderRepo.ListChildren(ctx, ownerID, parentID)
	if err != nil {
		return fmt.Errorf("checking for duplicate names: %w", err)
	}
	for _, sibling := range siblings {
		if sibling.ID != excludeID && sibling.Name == name {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a folder named %q already exists in this location", name),
				ResourceType: "folder",
				ResourceID:   sibling.ID,
			}
		}
	}
	return nil
}

// checkNoCycle walks from the destination up to the root. Finding the moved
// folder on that path means the move would create a cycle. The walk is
// bounded so a corrupt chain cannot spin forever.
func (s *folderService) checkNoCycle(ctx context.Context, folderID, newParentID, ownerID string) error {
	if folderID == newParentID {
		return fmt.Errorf("%w: cannot move a folder into itself", domain.ErrCycleDetected)
	}

	currentID := newParentID
	for depth := 0; ; depth++ {
		if depth >= config.MaxFolderDepth {
			return fmt.Errorf("%w: folder chain exceeds depth limit", domain.ErrInvalidState)
		}

		parent, err := s.folderRepo.GetByID(ctx, currentID, ownerID)
		if err != nil {
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		if *parent.ParentID == folderID {
			return fmt.Errorf("%w: cannot move a folder under its own descendant", domain.ErrCycleDetected)
		}
		currentID = *parent.ParentID
	}
}

// attachPath fills the computed display path, falling back to the bare name
func (s *folderService) attachPath(ctx context.Context, folder *models.Folder) {
	path, err := s.folderRepo.GetPath(ctx, &folder.ID, folder.OwnerID)
	if err != nil {
		s.logger.Warn("failed to compute path", "folder_id", folder.ID, "error", err)
		folder.Path = folder.Name
		return
	}
	folder.Path = path
}
