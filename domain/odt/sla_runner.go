package odt

import (
	cron "github.com/robfig/cron/v3"
)

// StartSLACron runs the overdue scan at the top of every hour.
func StartSLACron() {
	crontab := cron.New(cron.WithSeconds())
	crontab.AddFunc("0 0 * * * ?", ScanOverdueProjects)
	crontab.Start()
}
