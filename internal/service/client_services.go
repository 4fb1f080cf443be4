package service

import (
	"github.com/MKhiriev/mint-sync/internal/adapter"
	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/store"
	"github.com/MKhiriev/mint-sync/internal/validators"
)

type ClientServices struct {
	EntryService    ClientEntryService
	ConflictService ClientConflictService
	SyncService     ClientSyncService
	SyncJob         ClientSyncJob
}

func NewClientServices(local store.LocalRepository, serverAdapter adapter.ServerAdapter, clientVersion string, logger *logger.Logger) *ClientServices {
	syncSvc := NewClientSyncService(local, serverAdapter, clientVersion, logger)

	return &ClientServices{
		EntryService:    NewClientEntryService(local, validators.NewSyncValidator(), logger),
		ConflictService: NewClientConflictService(local, serverAdapter, logger),
		SyncService:     syncSvc,
		SyncJob:         NewClientSyncJob(syncSvc, logger),
	}
}
