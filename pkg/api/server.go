package api

import (
	"github.com/babitron/trainboard/pkg/api/routes"
	"github.com/babitron/trainboard/pkg/delays"
	"github.com/babitron/trainboard/pkg/timetable"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// Dependencies are the long-lived resources the request handlers share: the
// static timetable built once at startup and the cached delay scraper.
type Dependencies struct {
	DelayCache *delays.Cache
	Timetable  *timetable.Timetable
}

func SetupServer(listen string, deps Dependencies) error {
	return createServer(deps).Listen(listen)
}

func createServer(deps Dependencies) *fiber.App {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	// the static timetable page may be served from a different origin than
	// the live API it polls
	webApp.Use(cors.New())

	// legacy scrape endpoint, kept at its historical path
	webApp.Get("/train_delays", routes.LegacyTrainDelays(deps.DelayCache))

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.DelayRecordsRouter(group.Group("/delay_records"), deps.DelayCache)

	routes.DeparturesRouter(group.Group("/departures"), deps.Timetable, deps.DelayCache)

	return webApp
}
