package boletos

import (
	"strings"

	"boleto-service/internal/domain"
)

// AgregarVendas consolida as linhas cruas de venda por vendedor
// normalizado, somando os seis campos numéricos. A saída preserva a
// ordem de primeira ocorrência das chaves e a grafia da primeira linha,
// portanto é determinística para uma mesma entrada.
func AgregarVendas(rows []domain.VendaRow) []domain.VendaAgregada {
	porChave := make(map[string]*domain.VendaAgregada, len(rows))
	ordem := make([]string, 0, len(rows))

	for _, r := range rows {
		chave := NormalizarNome(r.Vendedor)
		if chave == "" {
			continue
		}
		agg, ok := porChave[chave]
		if !ok {
			agg = &domain.VendaAgregada{
				Vendedor: strings.TrimSpace(r.Vendedor),
				Chave:    chave,
				DDD:      r.DDD,
			}
			porChave[chave] = agg
			ordem = append(ordem, chave)
		}
		agg.QtdVendas += r.QtdVendas
		agg.ValorLiquidoVendas += r.ValorLiquidoVendas
		agg.ValorBrutoVendas += r.ValorBrutoVendas
		agg.QtdCobrancas += r.QtdCobrancas
		agg.ValorLiquidoCobrancas += r.ValorLiquidoCobrancas
		agg.ValorBrutoCobrancas += r.ValorBrutoCobrancas
	}

	out := make([]domain.VendaAgregada, 0, len(ordem))
	for _, chave := range ordem {
		out = append(out, *porChave[chave])
	}
	return out
}

// AgregarDesmembramentos consolida linhas de desmembramento pela chave
// (vendedor normalizado, código PDV), com igualdade exata do código.
// Valores somados; o vencimento é substituído por cada valor não vazio
// posterior na ordem de entrada. Linhas sem vendedor, sem PDV ou com
// valor não positivo são descartadas antes do agrupamento e contadas no
// relatório.
func AgregarDesmembramentos(rows []domain.DesmembramentoRow, rel *domain.RelatorioProcessamento) []domain.DesmembramentoAgregado {
	porChave := make(map[string]*domain.DesmembramentoAgregado, len(rows))
	ordem := make([]string, 0, len(rows))

	for _, r := range rows {
		vendedor := strings.TrimSpace(r.Vendedor)
		pdv := strings.TrimSpace(r.CodigoPDV)
		if vendedor == "" || pdv == "" || r.Valor <= 0 {
			if rel != nil {
				rel.LinhasDesmembramentosExcluidas++
			}
			continue
		}

		chaveVendedor := NormalizarNome(vendedor)
		chave := chaveVendedor + "\x00" + pdv

		agg, ok := porChave[chave]
		if !ok {
			agg = &domain.DesmembramentoAgregado{
				ChaveVendedor: chaveVendedor,
				Vendedor:      vendedor,
				CodigoPDV:     pdv,
				DDD:           r.DDD,
			}
			porChave[chave] = agg
			ordem = append(ordem, chave)
		}
		agg.Valor += r.Valor
		if venc := strings.TrimSpace(r.Vencimento); venc != "" {
			agg.Vencimento = venc
		}
		if agg.DDD == 0 {
			agg.DDD = r.DDD
		}
	}

	out := make([]domain.DesmembramentoAgregado, 0, len(ordem))
	for _, chave := range ordem {
		out = append(out, *porChave[chave])
	}
	return out
}
