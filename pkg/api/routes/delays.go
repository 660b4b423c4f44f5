package routes

import (
	"github.com/babitron/trainboard/pkg/delays"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
)

// LegacyTrainDelays serves the scrape result keyed by train identity, in the
// historical response shape every field included.
func LegacyTrainDelays(delayCache *delays.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(delayCache.Get(c.Context()))
	}
}

func DelayRecordsRouter(router fiber.Router, delayCache *delays.Cache) {
	router.Get("/", func(c *fiber.Ctx) error {
		return listDelayRecords(c, delayCache)
	})
}

func listDelayRecords(c *fiber.Ctx, delayCache *delays.Cache) error {
	records := delayCache.Get(c.Context())

	recordsReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{requestedGroup(c)},
	}, records)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce delay records",
		})
	}

	return c.JSON(recordsReduced)
}

// requestedGroup maps the detailed query flag onto a sheriff marshalling
// group.
func requestedGroup(c *fiber.Ctx) string {
	if c.QueryBool("detailed") {
		return "detailed"
	}

	return "basic"
}
