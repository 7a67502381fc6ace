// cmd/boletos/main.go
package main

import (
	"log"

	"boleto-service/internal/api/handlers"
	"boleto-service/internal/api/responses"
	"boleto-service/internal/core/boletos"

	"github.com/gin-gonic/gin"
)

func main() {
	responses.InitLogger()

	boletoService := boletos.NewService()
	boletoHandler := handlers.NewBoletoHandler(boletoService)

	router := gin.Default()

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/boletos/process", boletoHandler.HandleProcessarBoletos)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP", "service": "boleto-service"})
	})

	const port = "8084"
	log.Printf("🚀 Boleto Service (Go) iniciado e escutando na porta %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Falha ao iniciar o servidor de boletos: ", err)
	}
}
