package discovery

import (
	"fmt"

	"github.com/moonlinghq/moonling-core/internal/domain"
)

// flavorMessages holds the per-rarity discovery flavor texts. Each
// entry takes the ingredient name as its single format argument.
var flavorMessages = map[domain.Rarity][]string{
	"common": {
		"Your moonling found some %s while wandering the garden!",
		"A little pile of %s turned up under a mushroom cap.",
		"Your moonling proudly presents: %s!",
	},
	"uncommon": {
		"Your moonling sniffed out some %s near the pond!",
		"Tucked inside a hollow log: %s. Nice find!",
	},
	"rare": {
		"A glint in the moonlight led your moonling to %s!",
		"Your moonling dug up %s. It hums faintly.",
	},
	"epic": {
		"The night sky shimmered, and %s drifted down to your moonling!",
		"Your moonling returns wide-eyed, clutching %s.",
	},
	"legendary": {
		"The stars themselves aligned. Your moonling found %s!",
	},
}

func (s *service) flavorMessage(rarity domain.Rarity, name string) string {
	msgs := flavorMessages[rarity]
	if len(msgs) == 0 {
		return fmt.Sprintf("Your moonling found %s!", name)
	}
	return fmt.Sprintf(msgs[s.pick(len(msgs))], name)
}
