package indices

import (
	"context"
	"fmt"
	"sync"

	"odtflow/account"
	"odtflow/bizerror"
	"odtflow/domain/odt"
	"odtflow/session"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	lock    sync.Mutex
	running bool

	IndicesFullSyncFunc    = IndicesFullSync
	ScheduleNewSyncRunFunc = ScheduleNewSyncRun

	SyncBatchSize = 500

	// one batch per second keeps a full sync from starving the cluster
	syncLimiter = rate.NewLimiter(rate.Limit(1), 1)
)

// ScheduleNewSyncRun kicks off a full index rebuild in the background.
// Only one run is active at a time; a second request is a no-op.
func ScheduleNewSyncRun(s *session.Session) (bool, error) {
	if !s.Perms.HasRole(account.SystemAdminPermission.ID) {
		return false, bizerror.ErrForbidden
	}

	lock.Lock()
	if running {
		lock.Unlock()
		return false, nil
	}
	running = true
	lock.Unlock()

	waitRunning := sync.WaitGroup{}
	waitRunning.Add(1)
	go func() {
		waitRunning.Done()
		defer func() {
			lock.Lock()
			running = false
			lock.Unlock()
		}()
		IndicesFullSyncFunc()
	}()
	waitRunning.Wait()
	return true, nil
}

func IndicesFullSync() (err error) {
	defer func() {
		if ret := recover(); ret != nil {
			e, ok := ret.(error)
			if ok {
				err = e
			} else {
				err = fmt.Errorf("error on indices full sync: %v", ret)
			}
		}
	}()

	page := 1
	for {
		if err := syncLimiter.Wait(context.Background()); err != nil {
			return err
		}

		projects, err := odt.LoadProjectsFunc(page, SyncBatchSize)
		if err != nil {
			logrus.Warnf("indices full sync: error on retrieve projects(page = %d, pageSize = %d): %v", page, SyncBatchSize, err)
			page++
			continue
		}

		if len(projects) == 0 {
			logrus.Infof("indices full sync: there are no more projects to index")
			return nil // loop exit
		}

		if err := IndexProjects(projects); err != nil {
			logrus.Warnf("indices full sync: error on index projects(page = %d, pageSize = %d): %v", page, SyncBatchSize, err)
		}
		page++
	}
}
