package boletos

import (
	"fmt"
	"io"

	"boleto-service/internal/domain"
)

// ArquivoVendas associa um relatório de vendas ao DDD informado no
// formulário de upload.
type ArquivoVendas struct {
	DDD     int
	Arquivo io.Reader
}

// Service define a interface do serviço de geração de boletos.
type Service interface {
	ProcessarBoletos(vendas []ArquivoVendas, desmembramentosFile io.Reader, desmembramentosFilename string, numeroInicial int, periodo string) ([]byte, *domain.RelatorioProcessamento, error)
}

type service struct{}

// NewService cria uma nova instância do serviço de boletos.
func NewService() Service {
	return &service{}
}

// ProcessarBoletos executa o pipeline completo de uma requisição:
// leitura das planilhas, agregação, regra de valor por DDD, abatimento
// de desmembramentos, divisão por teto, numeração sequencial e geração
// do xlsx final. Cada execução é independente e determinística.
func (svc *service) ProcessarBoletos(vendas []ArquivoVendas, desmembramentosFile io.Reader, desmembramentosFilename string, numeroInicial int, periodo string) ([]byte, *domain.RelatorioProcessamento, error) {
	rel := &domain.RelatorioProcessamento{}

	var vendaRows []domain.VendaRow
	for _, arquivo := range vendas {
		rows, err := lerPlanilhaVendas(arquivo.Arquivo, arquivo.DDD, rel)
		if err != nil {
			return nil, rel, fmt.Errorf("erro ao ler planilha de vendas do DDD %d: %w", arquivo.DDD, err)
		}
		vendaRows = append(vendaRows, rows...)
	}
	if len(vendaRows) == 0 {
		return nil, rel, fmt.Errorf("nenhum dado de vendas encontrado nas planilhas enviadas")
	}

	desmRows, err := lerPlanilhaDesmembramentos(desmembramentosFile, desmembramentosFilename, rel)
	if err != nil {
		return nil, rel, err
	}

	if !algumDDDIdentificado(vendaRows, desmRows) {
		return nil, rel, fmt.Errorf("não foi possível identificar o DDD de nenhuma linha enviada")
	}

	boletosFinais, err := executarRegras(vendaRows, desmRows, numeroInicial, periodo, rel)
	if err != nil {
		return nil, rel, err
	}

	saida, err := gerarExcelBoletos(boletosFinais, periodo)
	if err != nil {
		return nil, rel, fmt.Errorf("erro ao gerar arquivo de boletos: %w", err)
	}
	return saida, rel, nil
}

func algumDDDIdentificado(vendas []domain.VendaRow, desms []domain.DesmembramentoRow) bool {
	for _, v := range vendas {
		if v.DDD > 0 {
			return true
		}
	}
	for _, d := range desms {
		if d.DDD > 0 {
			return true
		}
	}
	return false
}

// executarRegras encadeia as etapas puras do motor sobre as linhas já
// extraídas. Mantido separado do I/O de planilhas para os testes de
// ponta a ponta do pipeline.
func executarRegras(vendaRows []domain.VendaRow, desmRows []domain.DesmembramentoRow, numeroInicial int, periodo string, rel *domain.RelatorioProcessamento) ([]domain.Boleto, error) {
	vendasAgregadas := AgregarVendas(vendaRows)
	desmsAgregados := AgregarDesmembramentos(desmRows, rel)
	rel.VendedoresAgregados = len(vendasAgregadas)
	rel.DesmembramentosAgregados = len(desmsAgregados)

	totais := make([]domain.TotalVendedor, 0, len(vendasAgregadas))
	for _, venda := range vendasAgregadas {
		venda.DDD = DetectarDDD(venda, desmsAgregados)
		totais = append(totais, domain.TotalVendedor{
			Vendedor: venda.Vendedor,
			Valor:    ValorFinalDDD(venda),
			DDD:      venda.DDD,
		})
	}

	boletosEmitidos := AplicarDesmembramentos(totais, desmsAgregados, rel)
	boletosEmitidos = DividirBoletos(boletosEmitidos, periodo, rel)
	boletosEmitidos = NumerarSequencial(boletosEmitidos, numeroInicial)
	rel.BoletosEmitidos = len(boletosEmitidos)

	return boletosEmitidos, nil
}
