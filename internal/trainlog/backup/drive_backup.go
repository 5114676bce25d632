package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aquaclub/swimtrack/internal/trainlog"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	rootBackupsFolderName = "swimtrack-backup"
	sessionsFileChunkSize = 200 // number of sessions in one backup file
)

// GoogleDriveBackupService uploads snapshots of the local session
// collection to a dedicated folder on google drive. One snapshot run
// produces one or more json chunk files, shared read-only with the
// configured reviewer address.
type GoogleDriveBackupService struct {
	store           *trainlog.LocalStore
	service         *drive.Service
	readerEmail     string
	backupsFolderId string
}

func NewGoogleDriveBackupService(
	ctx context.Context,
	credentialsJson []byte,
	readerEmail string,
	store *trainlog.LocalStore,
) (*GoogleDriveBackupService, error) {
	driveService, err := drive.NewService(ctx, option.WithCredentialsJSON(credentialsJson))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}

	rootFolderQuery := fmt.Sprintf("mimeType = 'application/vnd.google-apps.folder' and trashed = false and name = '%s'", rootBackupsFolderName)
	rootFolderList, err := driveService.
		Files.List().
		Q(rootFolderQuery).
		Fields("files(id, name)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve files: %w", err)
	}

	backupsFolderId := ""
	switch len(rootFolderList.Files) {
	case 0:
		log.Println("root backups folder not found, will recreate")
	case 1:
		rbf := rootFolderList.Files[0]
		log.Printf("root backups folder found, %s: %s", rbf.Name, rbf.Id)
		backupsFolderId = rbf.Id
	default:
		rbf := rootFolderList.Files[0]
		log.Printf("attention: found %d root backups folders, will take the first one: %s", len(rootFolderList.Files), rbf.Id)
		backupsFolderId = rbf.Id
	}

	s := &GoogleDriveBackupService{
		store:       store,
		service:     driveService,
		readerEmail: readerEmail,
	}

	if backupsFolderId == "" {
		backupsFolderId, err = s.createRootBackupsFolder()
		if err != nil {
			return nil, fmt.Errorf("failed to create root backups folder: %w", err)
		}
		log.Printf("new root backups folder created: %s", backupsFolderId)
	}

	s.backupsFolderId = backupsFolderId

	return s, nil
}

// Reinit drops the whole backups folder and takes a fresh snapshot.
func (s *GoogleDriveBackupService) Reinit(ctx context.Context, baseTime time.Time) error {
	log.Println("sessions backup reinit starting ...")

	if err := s.service.Files.Delete(s.backupsFolderId).Do(); err != nil {
		return err
	}

	backupsFolderId, err := s.createRootBackupsFolder()
	if err != nil {
		return fmt.Errorf("failed to create root backups folder: %w", err)
	}
	log.Printf("new root backups folder created: %s", backupsFolderId)
	s.backupsFolderId = backupsFolderId

	return s.DoBackup(ctx, baseTime)
}

// DoBackup snapshots the current collection into date-stamped chunk
// files, picking a file name that does not collide with an earlier run
// on the same day.
func (s *GoogleDriveBackupService) DoBackup(ctx context.Context, baseTime time.Time) error {
	currentBackupFiles, err := s.getBackupFiles(s.backupsFolderId)
	if err != nil {
		return err
	}

	sessions := s.store.All(ctx)
	if len(sessions) == 0 {
		log.Println("no sessions to backup, done")
		return nil
	}

	backupFileName := fmt.Sprintf("swim-sessions-%d-%d-%d", baseTime.Day(), baseTime.Month(), baseTime.Year())
	fileCounter := 1
	for {
		nameExists := false
		for _, file := range currentBackupFiles {
			if file.Name == (backupFileName + "_1.json") {
				nameExists = true
				break
			}
		}
		if nameExists {
			fileCounter++
			backupFileName = fmt.Sprintf("%s_%d", backupFileName, fileCounter)
		} else {
			break
		}
	}

	log.Printf("backing up %d sessions as %s", len(sessions), backupFileName)
	if err := s.backupSessions(sessions, backupFileName); err != nil {
		return fmt.Errorf("failed to backup sessions: %w", err)
	}

	log.Printf("backup successfully saved: %s", backupFileName)
	return nil
}

func (s *GoogleDriveBackupService) createRootBackupsFolder() (string, error) {
	backupsFolderMeta := &drive.File{
		Name:     rootBackupsFolderName,
		MimeType: "application/vnd.google-apps.folder",
	}

	bfRes, err := s.service.
		Files.Create(backupsFolderMeta).
		Fields("id").
		Do()
	if err != nil {
		return "", err
	}

	if pId, err := s.updateFilePermission(bfRes.Id); err != nil {
		return bfRes.Id, fmt.Errorf("failed to create additional permission for root backup folder: %s", err)
	} else {
		log.Printf("permission %s created for root backup folder %s", pId, bfRes.Id)
	}

	return bfRes.Id, nil
}

func (s *GoogleDriveBackupService) backupSessions(sessions []trainlog.SessionRecord, baseFileName string) error {
	chunks := len(sessions) / sessionsFileChunkSize
	fromIndex, toIndex := 0, sessionsFileChunkSize
	if len(sessions)%sessionsFileChunkSize > 0 {
		chunks++
	}

	if len(sessions) < sessionsFileChunkSize {
		toIndex = len(sessions)
	}

	for i := 1; i <= chunks; i++ {
		nextFileName := fmt.Sprintf("%s_%d.json", baseFileName, i)
		nextSessions := sessions[fromIndex:toIndex]

		nextSessionsJson, err := json.Marshal(nextSessions)
		if err != nil {
			return fmt.Errorf("%s failed to marshal sessions: %w", nextFileName, err)
		}

		fileMeta := &drive.File{
			Name:     nextFileName,
			MimeType: "application/vnd.google-apps.file",
			Parents:  []string{s.backupsFolderId},
		}

		nextBackupChunkFile, err := s.service.
			Files.Create(fileMeta).
			Fields("id, parents").
			Media(bytes.NewReader(nextSessionsJson)).
			Do()
		if err != nil {
			return fmt.Errorf("%s: failed to create sessions backup file: %w", nextFileName, err)
		}

		permissionId, err := s.updateFilePermission(nextBackupChunkFile.Id)
		if err != nil {
			return fmt.Errorf("%s: failed to create additional permission: %s", nextFileName, err)
		}

		log.Printf("%s: backup file [permission %s] saved: %s", nextFileName, permissionId, nextBackupChunkFile.Id)

		fromIndex = toIndex
		toIndex = toIndex + sessionsFileChunkSize
		if toIndex >= len(sessions) {
			toIndex = len(sessions)
		}
	}

	return nil
}

func (s *GoogleDriveBackupService) updateFilePermission(fileId string) (string, error) {
	permission := &drive.Permission{
		EmailAddress: s.readerEmail,
		Type:         "user",
		Role:         "reader",
	}

	createdPermission, err := s.service.Permissions.
		Create(fileId, permission).
		Do()
	if err != nil {
		return "", err
	}

	return createdPermission.Id, nil
}

func (s *GoogleDriveBackupService) getBackupFiles(backupsFolderId string) ([]*drive.File, error) {
	filesQuery := fmt.Sprintf("'%s' in parents and mimeType != 'application/vnd.google-apps.folder' and trashed = false", backupsFolderId)
	backups, err := s.service.
		Files.List().
		Q(filesQuery).
		Fields("files(id, name, createdTime)").
		Do()
	if err != nil {
		return nil, err
	}

	return backups.Files, nil
}
