package main

import (
	"net/http"
	"os"

	"odtflow/account"
	"odtflow/attachment"
	"odtflow/bizerror"
	"odtflow/client/es"
	"odtflow/client/s3"
	"odtflow/common"
	"odtflow/domain"
	"odtflow/domain/odt"
	"odtflow/event"
	"odtflow/indices"
	"odtflow/indices/search"
	"odtflow/infra/tracing"
	"odtflow/persistence"
	"odtflow/servehttp"
	"odtflow/session"
	"odtflow/sessions"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.Infoln("service start")

	tracingCloser := tracing.Bootstrap(common.GetServiceName())
	defer tracingCloser.Close()

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		logrus.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			logrus.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		logrus.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB(nil).AutoMigrate(
		&domain.Project{}, &domain.TrackingEntry{}, &domain.StageAssignment{},
		&domain.Comment{}, &domain.Link{}, &domain.Sequence{},
		&event.EventRecord{}, &account.User{}).Error
	if err != nil {
		logrus.Fatalf("database migration failed %v\n", err)
	}

	if err := account.BootstrapAdmin(os.Getenv("ADMIN_SECRET")); err != nil {
		logrus.Fatalf("bootstrap admin failed %v\n", err)
	}

	es.CreateClientFromEnv()
	s3.Bootstrap()

	event.EventHandlers = append(event.EventHandlers, indices.IndexProjectEventHandle)

	engine := gin.Default()
	engine.Use(bizerror.ErrorHandling(), tracing.TracingIngress())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "odtflow")
	})

	sessions.RegisterSessionsHandler(engine)
	sessions.RegisterSessionHandler(engine, session.SimpleAuthFilter())
	account.RegisterUsersRestAPI(engine, session.SimpleAuthFilter())
	servehttp.RegisterProjectsRestAPI(engine, session.SimpleAuthFilter())
	servehttp.RegisterSLARestAPI(engine, session.SimpleAuthFilter())
	servehttp.RegisterReportsRestAPI(engine, session.SimpleAuthFilter())
	indices.RegisterIndicesRestAPI(engine, session.SimpleAuthFilter())
	search.RegisterProjectSearchRestAPI(engine, session.SimpleAuthFilter())
	attachment.RegisterAttachmentsRestAPI(engine, session.SimpleAuthFilter())

	odt.StartSLACron()
	indices.StartCron()

	servehttp.StartHTTPServer(engine)
}
