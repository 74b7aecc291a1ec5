package service

import (
	"github.com/MKhiriev/go-care-keeper/internal/adapter"
	"github.com/MKhiriev/go-care-keeper/internal/config"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/internal/store"
)

// ClientServices groups the services of the care client.
type ClientServices struct {
	Queue   *OfflineQueue
	Status  *QueueStatusService
	Records *CareRecordService
}

// NewClientServices wires the offline queue to local storage and the remote
// store. Status must be closed by the caller.
func NewClientServices(
	storages *store.ClientStorages,
	remote adapter.RemoteStore,
	connectivity adapter.ConnectivityMonitor,
	cfg *config.ClientConfig,
	logger *logger.Logger,
) *ClientServices {
	queue := NewOfflineQueue(storages.Queue, storages.DeadLetters, remote, connectivity, cfg.Queue, logger)

	return &ClientServices{
		Queue:   queue,
		Status:  NewQueueStatusService(queue, connectivity, logger),
		Records: NewCareRecordService(queue, cfg.App.OwnerID),
	}
}
