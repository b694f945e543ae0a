package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ymatsuda/picfeed/feed"
	"github.com/ymatsuda/picfeed/server"
	"github.com/ymatsuda/picfeed/server/middlewares"
	"github.com/ymatsuda/picfeed/session"
	"github.com/ymatsuda/picfeed/storage"
	"github.com/ymatsuda/picfeed/utils"
	"github.com/ymatsuda/picfeed/utils/dotenv"
	. "github.com/ymatsuda/picfeed/utils/flag"
	. "github.com/ymatsuda/picfeed/utils/log"
)

func main() {
	ParseFlags()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	InitLogger()

	db, err := utils.GetDBConnection()
	if err != nil {
		Log.Fatal("cannot connect to DB: ", err)
	}
	utils.DatabaseSetupAndMigration(db)

	sessions := session.NewStore()
	middlewares.Setup(sessions)

	engine := feed.NewEngine(storage.NewGormAccessor(db))
	handlers := server.NewHandlers(db, engine, sessions)

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())

	server.RegisterRoutes(router, handlers, ByPassAuth)

	Log.Info("api server starts up")
	router.Run(":8080")
}
