package server

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdouchement/visionboard/internal/database"
	"github.com/mdouchement/visionboard/internal/server/middlewares"
	"github.com/sirupsen/logrus"
)

// An IOC is an Iversion Of Control pattern used to init the server package.
type IOC struct {
	Version  string
	Database database.Client
	Logger   logrus.FieldLogger
	// BodyLimit is the maximum size of a request body (e.g. 10M).
	BodyLimit string
}

// EchoEngine instantiates the wep server.
func EchoEngine(ctrl IOC) *echo.Echo {
	if ctrl.Logger == nil {
		ctrl.Logger = logrus.StandardLogger()
	}
	if ctrl.BodyLimit == "" {
		ctrl.BodyLimit = "10M"
	}

	engine := echo.New()
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))
	engine.Use(middleware.Gzip())
	engine.Use(middleware.BodyLimit(ctrl.BodyLimit))

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
	}))
	engine.Binder = middlewares.NewBinder()
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler(ctrl.Logger)

	engine.Pre(middleware.Rewrite(map[string]string{
		"/": "/version",
	}))

	////////////
	// Router //
	////////////

	router := engine.Group("")

	// generic handlers
	//
	router.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})

	//
	// board handlers
	//
	board := &board{
		db: ctrl.Database,
	}
	router.POST("/boards", board.Create)
	router.GET("/boards/:id", board.Show)
	router.PUT("/boards/:id", board.Replace)
	router.PATCH("/boards/:id", board.Merge)

	//
	// media handlers
	//
	media := &media{
		db: ctrl.Database,
	}
	router.POST("/media", media.Upload)
	router.GET("/media/:id", media.Show)

	return engine
}

// PrintRoutes prints the Echo engin exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}
