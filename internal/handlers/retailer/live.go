package retailer

import (
	"log"
	"net/http"
	"time"

	"vastralaya_back_end/internal/database"
	"vastralaya_back_end/internal/models"
	"vastralaya_back_end/internal/queue"
	"vastralaya_back_end/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS géré en amont
	},
}

// OrdersWebSocket pousse le flux d'événements commandes vers le
// back-office. Le token de session passe en query (?token=...), les
// navigateurs ne posant pas de headers sur les WebSockets.
func OrdersWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token de session manquant"})
		return
	}

	var session models.Session
	if err := store.Get(c.Request.Context(), "session:"+token, &session); err != nil || session.UserType != "retailer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalide"})
		return
	}

	if database.Redis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Flux temps réel indisponible"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("❌ Erreur upgrade WebSocket:", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	pubsub := database.Redis.Subscribe(ctx, queue.OrderEventsChannel)
	defer pubsub.Close()

	log.Println("🔌 WebSocket commandes ouvert pour", session.Email)

	// ping périodique pour garder la connexion en vie derrière les proxies
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Println("⚠️ WebSocket fermé:", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
