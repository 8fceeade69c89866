// Package batch validates a folder of portal submissions and writes one
// report per vendor.
//
// Each <portal_root>/<vendor>.json holds one vendor's portal document. The
// Runner validates it (optionally with gathered documents) and writes the
// full report to <report_dir>/<vendor>_portal_report.json. The Scheduler
// repeats the run on a cron schedule.
package batch
