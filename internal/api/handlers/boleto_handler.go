package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"boleto-service/internal/api/responses"
	"boleto-service/internal/core/boletos"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// dddsSuportados são os códigos de área com campo próprio no formulário.
var dddsSuportados = []int{42, 47, 61, 63}

var naoDigitosRegex = regexp.MustCompile(`[^\d]`)

// BoletoHandler lida com as requisições da API de geração de boletos.
type BoletoHandler struct {
	service boletos.Service
}

// NewBoletoHandler cria um novo handler de boletos.
func NewBoletoHandler(service boletos.Service) *BoletoHandler {
	return &BoletoHandler{
		service: service,
	}
}

// HandleProcessarBoletos recebe as planilhas de vendas por DDD e a de
// desmembramentos, roda o motor de alocação e devolve o xlsx numerado.
func (h *BoletoHandler) HandleProcessarBoletos(c *gin.Context) {
	execucaoID := uuid.NewString()
	c.Header("X-Processamento-Id", execucaoID)

	var arquivosVendas []boletos.ArquivoVendas
	for _, ddd := range dddsSuportados {
		fileHeader, err := c.FormFile(fmt.Sprintf("vendas%d", ddd))
		if err != nil {
			continue
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if ext != ".xls" && ext != ".xlsx" {
			responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Extensão não suportada na planilha de vendas do DDD %d: %s", ddd, ext))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			responses.Error(c, http.StatusInternalServerError, fmt.Sprintf("Não foi possível abrir a planilha de vendas do DDD %d", ddd))
			return
		}
		defer file.Close()

		arquivosVendas = append(arquivosVendas, boletos.ArquivoVendas{DDD: ddd, Arquivo: file})
	}
	if len(arquivosVendas) == 0 {
		responses.Error(c, http.StatusBadRequest, "Envie pelo menos uma planilha de vendas (vendas42, vendas47, vendas61 ou vendas63)")
		return
	}

	desmHeader, err := c.FormFile("desmembramentosFile")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Planilha de desmembramentos (.xls, .xlsx, .csv) não encontrada ou inválida")
		return
	}
	ext := strings.ToLower(filepath.Ext(desmHeader.Filename))
	if ext != ".xls" && ext != ".xlsx" && ext != ".csv" {
		responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Extensão não suportada na planilha de desmembramentos: %s", ext))
		return
	}

	numeroInicial, err := strconv.Atoi(c.PostForm("startingNumber"))
	if err != nil || numeroInicial < 1 {
		responses.Error(c, http.StatusBadRequest, "Número inicial inválido")
		return
	}

	periodo := strings.TrimSpace(c.PostForm("period"))
	if periodo == "" {
		responses.Error(c, http.StatusBadRequest, "Período não fornecido")
		return
	}

	desmFile, err := desmHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Não foi possível abrir a planilha de desmembramentos")
		return
	}
	defer desmFile.Close()

	saida, relatorio, err := h.service.ProcessarBoletos(arquivosVendas, desmFile, desmHeader.Filename, numeroInicial, periodo)
	if err != nil {
		responses.Logger().Error("processamento de boletos falhou",
			zap.String("execucao_id", execucaoID),
			zap.Error(err))
		responses.Error(c, http.StatusInternalServerError, "Erro ao processar as planilhas", err.Error())
		return
	}

	responses.Logger().Info("processamento de boletos concluído",
		zap.String("execucao_id", execucaoID),
		zap.String("periodo", periodo),
		zap.Int("numero_inicial", numeroInicial),
		zap.Int("linhas_vendas", relatorio.LinhasVendasLidas),
		zap.Int("linhas_vendas_excluidas", relatorio.LinhasVendasExcluidas),
		zap.Int("linhas_desmembramentos", relatorio.LinhasDesmembramentosLidas),
		zap.Int("linhas_desmembramentos_excluidas", relatorio.LinhasDesmembramentosExcluidas),
		zap.Int("vendedores", relatorio.VendedoresAgregados),
		zap.Int("desmembramentos", relatorio.DesmembramentosAgregados),
		zap.Int("boletos_emitidos", relatorio.BoletosEmitidos),
		zap.Int("boletos_divididos", relatorio.BoletosDivididos),
		zap.Strings("avisos", relatorio.Avisos))

	fileName := fmt.Sprintf("boletos_%s.xlsx", naoDigitosRegex.ReplaceAllString(periodo, "_"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", saida)
}
