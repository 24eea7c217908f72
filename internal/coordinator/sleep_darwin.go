package coordinator

import (
	"context"
	"log"

	"github.com/prashantgupta24/mac-sleep-notifier/notifier"
)

// watchSleep pauses the game when the system sleeps and resumes it on wake.
func watchSleep(ctx context.Context, c *Coordinator) {
	sleepCh := notifier.GetInstance().Start()

	for {
		select {
		case <-ctx.Done():
			return
		case activity, ok := <-sleepCh:
			if !ok {
				return
			}
			switch activity.Type {
			case notifier.Sleep:
				log.Println("System sleep detected")
				if err := c.Pause(); err != nil {
					log.Printf("Pause: %v", err)
				}
			case notifier.Awake:
				log.Println("System wake detected")
				if err := c.Resume(); err != nil {
					log.Printf("Resume: %v", err)
				}
			}
		}
	}
}
