package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/aquaclub/swimtrack/internal/trainlog"
	"github.com/aquaclub/swimtrack/internal/trainlog/backup"

	log "github.com/sirupsen/logrus"
)

// uploads a snapshot of the local session collection to google drive
func main() {
	storePath := flag.String("store", "./swimtrack-data", "path of the local sessions store root dir")
	credentialsPath := flag.String("credentials", "./gd-credentials.json", "path of the google drive service account credentials json")
	readerEmail := flag.String("reader", "", "email address given read access to the backup files")
	reinit := flag.Bool("reinit", false, "drop the remote backups folder and take a fresh snapshot")
	flag.Parse()

	if *readerEmail == "" {
		log.Fatalln("reader email not set, use -reader")
	}

	credentialsJson, err := os.ReadFile(*credentialsPath)
	if err != nil {
		log.Fatalf("read credentials file: %s", err)
	}

	store, err := trainlog.NewLocalStore(*storePath, trainlog.RetentionPolicy{})
	if err != nil {
		log.Fatalf("open local store: %s", err)
	}

	ctx := context.Background()
	backupService, err := backup.NewGoogleDriveBackupService(ctx, credentialsJson, *readerEmail, store)
	if err != nil {
		log.Fatalf("create backup service: %s", err)
	}

	if *reinit {
		if err := backupService.Reinit(ctx, time.Now()); err != nil {
			log.Fatalf("backup reinit: %s", err)
		}
		return
	}

	if err := backupService.DoBackup(ctx, time.Now()); err != nil {
		log.Fatalf("backup: %s", err)
	}
	log.Println("backup done")
}
