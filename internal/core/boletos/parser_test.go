package boletos

import (
	"bytes"
	"strings"
	"testing"

	"boleto-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseBRLNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"1.234,56", 1234.56},
		{"R$ 1.234,56", 1234.56},
		{"1.234.567,89", 1234567.89},
		{"1234.56", 1234.56},
		{"(100,00)", -100},
		{"-10", -10},
		{"0,00", 0},
		{"", 0},
		{"abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := parseBRLNumber(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, v, 1e-9)
		})
	}
}

func TestExtrairDDDFilial(t *testing.T) {
	assert.Equal(t, 42, extrairDDDFilial("Filial 42 - Ponta Grossa"))
	assert.Equal(t, 63, extrairDDDFilial("FIL-63"))
	assert.Equal(t, 0, extrairDDDFilial("Matriz"))
	assert.Equal(t, 0, extrairDDDFilial(""))
}

func TestParseDateDayFirst(t *testing.T) {
	d, ok := parseDateDayFirst("15/03/2026")
	require.True(t, ok)
	assert.Equal(t, "15/03/2026", d)

	d, ok = parseDateDayFirst("2026-03-15")
	require.True(t, ok)
	assert.Equal(t, "15/03/2026", d)

	d, ok = parseDateDayFirst("45000")
	require.True(t, ok)
	assert.Equal(t, "15/03/2023", d, "serial de Excel dentro do intervalo plausível")

	_, ok = parseDateDayFirst("próxima semana")
	assert.False(t, ok)
	_, ok = parseDateDayFirst("")
	assert.False(t, ok)
}

func planilhaVendasTeste(t *testing.T, linhas [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	cabecalho := []interface{}{"Vendedor", "Qtd Vendas", "Valor Líquido Vendas", "Valor Bruto Vendas", "Qtd Cobranças", "Valor Líquido Cobranças", "Valor Bruto Cobranças"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &cabecalho))
	for i, linha := range linhas {
		celula, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", celula, &linha))
	}

	buffer, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buffer
}

func TestLerPlanilhaVendas(t *testing.T) {
	rel := &domain.RelatorioProcessamento{}
	buffer := planilhaVendasTeste(t, [][]interface{}{
		{"Maria Souza", 1, 200.5, 220, 2, 50, 55},
		{"", 0, 0, 0, 0, 0, 0},
		{"Total", 1, 200.5, 220, 2, 50, 55},
		{"José Pereira", 3, 100, 110, 0, 0, 0},
	})

	rows, err := lerPlanilhaVendas(buffer, 42, rel)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 4, rel.LinhasVendasLidas)
	assert.Equal(t, 2, rel.LinhasVendasExcluidas, "linha vazia e linha Total descartadas")

	assert.Equal(t, "Maria Souza", rows[0].Vendedor)
	assert.Equal(t, 42, rows[0].DDD)
	assert.InDelta(t, 1, rows[0].QtdVendas, 1e-9)
	assert.InDelta(t, 200.5, rows[0].ValorLiquidoVendas, 1e-9)
	assert.InDelta(t, 50, rows[0].ValorLiquidoCobrancas, 1e-9)

	assert.Equal(t, "José Pereira", rows[1].Vendedor)
	assert.InDelta(t, 100, rows[1].ValorLiquidoVendas, 1e-9)
}

func planilhaDesmembramentosTeste(t *testing.T, linhas [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	cabecalho := []interface{}{"Carimbo", "Obs", "FILIAL", "Vendedor", "Código PDV", "Valor", "Extra", "Vencimento"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &cabecalho))
	for i, linha := range linhas {
		celula, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", celula, &linha))
	}

	buffer, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buffer
}

func TestLerPlanilhaDesmembramentos(t *testing.T) {
	rel := &domain.RelatorioProcessamento{}
	buffer := planilhaDesmembramentosTeste(t, [][]interface{}{
		{"", "", "Filial 63", "Maria Souza", "PDV1", "150,00", "", "15/03/2026"},
		{"", "", "Sem filial", "José Pereira", "PDV2", 80, "", ""},
		{"observação", "", "Filial 63", "", "", "", "", ""},
	})

	rows, err := lerPlanilhaDesmembramentos(buffer, "desmembramentos.xlsx", rel)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 3, rel.LinhasDesmembramentosLidas)
	assert.Equal(t, 1, rel.LinhasDesmembramentosExcluidas, "linha sem vendedor e sem PDV descartada na leitura")

	assert.Equal(t, 63, rows[0].DDD)
	assert.Equal(t, "Maria Souza", rows[0].Vendedor)
	assert.Equal(t, "PDV1", rows[0].CodigoPDV)
	assert.InDelta(t, 150, rows[0].Valor, 1e-9)
	assert.Equal(t, "15/03/2026", rows[0].Vencimento)

	assert.Equal(t, 0, rows[1].DDD, "filial sem dois dígitos não identifica DDD")
	assert.InDelta(t, 80, rows[1].Valor, 1e-9)
}

func TestLerPlanilhaDesmembramentosCSV(t *testing.T) {
	csv := strings.Join([]string{
		"Carimbo;Obs;FILIAL;Vendedor;Codigo PDV;Valor;Extra;Vencimento",
		";;Filial 42;Maria Souza;PDV1;150,00;;15/03/2026",
		";;Filial 42;Jose Pereira;PDV2;80;;",
	}, "\n")

	rows, err := lerPlanilhaDesmembramentos(strings.NewReader(csv), "desmembramentos.csv", nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 42, rows[0].DDD)
	assert.Equal(t, "PDV1", rows[0].CodigoPDV)
	assert.InDelta(t, 150, rows[0].Valor, 1e-9)
	assert.Equal(t, "15/03/2026", rows[0].Vencimento)
	assert.Equal(t, "Jose Pereira", rows[1].Vendedor)
}
