package common

import (
	"log"
	"rbs/src/db"
	"rbs/src/lib"
	"rbs/src/services"
	"time"
)

const (
	// Dispatch cadence and batch size for the reminder poller.
	dispatchInterval = 5 * time.Minute
	dispatchBatch    = 50
)

// StartNotificationDispatcher registers the recurring job that delivers due
// booking reminders. The scheduler itself is started by boot.
func StartNotificationDispatcher() {
	jobId, err := lib.CreateCronJob(func() {
		svc := services.NewNotificationService(db.GetDb())
		sent, err := svc.DispatchDue(dispatchBatch)
		if err != nil {
			log.Printf("[notifications] Dispatch run failed: %s\n", err.Error())
			return
		}
		if sent > 0 {
			log.Printf("[notifications] Delivered %d reminders\n", sent)
		}
	}, dispatchInterval)
	if err != nil {
		log.Printf("[notifications] Could not schedule dispatcher: %s\n", err.Error())
		return
	}
	log.Printf("[notifications] Dispatcher scheduled: %s\n", *jobId)
}
