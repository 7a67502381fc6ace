// package domain/models.go
package domain

import "fmt"

// --- Modelos de entrada (linhas cruas extraídas das planilhas) ---

// VendaRow representa uma linha crua do relatório de vendas de um DDD.
type VendaRow struct {
	Vendedor              string
	DDD                   int
	QtdVendas             float64
	ValorLiquidoVendas    float64
	ValorBrutoVendas      float64
	QtdCobrancas          float64
	ValorLiquidoCobrancas float64
	ValorBrutoCobrancas   float64
}

// DesmembramentoRow representa uma linha crua da planilha de desmembramentos.
// DDD é zero quando a filial não permitiu extrair um código de área.
type DesmembramentoRow struct {
	DDD        int
	Vendedor   string
	CodigoPDV  string
	Valor      float64
	Vencimento string
}

// --- Modelos agregados (uma entrada por chave, em ordem de primeira ocorrência) ---

// VendaAgregada consolida todas as linhas de venda de um mesmo vendedor
// (chave normalizada). Vendedor preserva a grafia da primeira ocorrência.
type VendaAgregada struct {
	Vendedor              string
	Chave                 string
	DDD                   int
	QtdVendas             float64
	ValorLiquidoVendas    float64
	ValorBrutoVendas      float64
	QtdCobrancas          float64
	ValorLiquidoCobrancas float64
	ValorBrutoCobrancas   float64
}

// DesmembramentoAgregado consolida linhas de desmembramento por
// (vendedor normalizado, código PDV). Vencimento guarda o último valor
// não vazio visto na ordem de entrada.
type DesmembramentoAgregado struct {
	ChaveVendedor string
	Vendedor      string
	CodigoPDV     string
	Valor         float64
	Vencimento    string
	DDD           int
}

// TotalVendedor é o valor final a faturar de um vendedor após a regra de DDD.
type TotalVendedor struct {
	Vendedor string
	Valor    float64
	DDD      int
}

// --- Saída do motor ---

// Boleto é a unidade final de faturamento. Numero é atribuído pelo
// sequenciamento; SplitIndex/TotalSplits só são preenchidos quando o
// valor precisou ser dividido pelo teto do DDD.
type Boleto struct {
	Numero           int
	Vendedor         string
	Valor            float64
	DDD              int
	CodigoPDV        string
	Vencimento       string
	IsDesmembramento bool
	IsSplit          bool
	SplitIndex       int
	TotalSplits      int
}

// RelatorioProcessamento acumula contadores e avisos de uma execução.
// Substitui os diagnósticos de console: o motor preenche, o handler loga.
type RelatorioProcessamento struct {
	LinhasVendasLidas              int
	LinhasVendasExcluidas          int
	ValoresInvalidos               int
	LinhasDesmembramentosLidas     int
	LinhasDesmembramentosExcluidas int
	VendedoresAgregados            int
	DesmembramentosAgregados       int
	BoletosEmitidos                int
	BoletosDivididos               int
	Avisos                         []string
}

// Avisar registra um aviso não fatal da execução.
func (r *RelatorioProcessamento) Avisar(format string, args ...interface{}) {
	r.Avisos = append(r.Avisos, fmt.Sprintf(format, args...))
}
