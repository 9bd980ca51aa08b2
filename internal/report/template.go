package report

import "html/template"

var (
	pageTemplate      = template.Must(template.New("page").Parse(footerTemplate + PageTemplate))
	dashboardTemplate = template.Must(template.New("dashboard").Parse(footerTemplate + DashboardTemplate))
)

const footerTemplate = `{{define "footer"}}
<footer class="site-footer">
  <nav class="footer-nav">
    <a href="{{.Site.URL}}">&copy; {{.Site.Name}}<br /></a>
  </nav>
  <p class="muted">Generated {{.GeneratedAt}} from SEC EDGAR data. Not investment advice.</p>
</footer>
{{end}}`

// PageTemplate is the HTML template for one entity's valuation calculator.
// Everything except the stylesheet and Chart.js is inline.
const PageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="{{.Site.StylesheetURL}}" />
  <script src="{{.Site.ChartJSURL}}"></script>
  <style>
    .banner-error { background: #fef2f2; border: 1px solid #dc2626; color: #991b1b; padding: 10px 14px; border-radius: 8px; margin-bottom: 16px; }
    .banner-warn { background: #fffbeb; border: 1px solid #d97706; color: #92400e; padding: 8px 12px; border-radius: 8px; margin-bottom: 12px; font-size: 0.9rem; }
    .up { color: #16a34a; }
    .down { color: #dc2626; }
    .muted { color: #6b7280; font-size: 0.85rem; }
    .server-chart svg { max-width: 100%; height: auto; }
  </style>
</head>
<body>
<div class="container">
  <header class="page-header">
    <div>
      <h1>{{.Title}}</h1>
      <p class="muted">{{.CompanyName}}{{if .CIK}} · CIK {{.CIK}}{{end}} · Pre-filled from SEC XBRL (companyfacts).</p>
      <p class="muted">Latest 10-K: <span id="latest10k">{{.Latest10K}}</span> · Latest 10-Q: <span id="latest10q">{{.Latest10Q}}</span></p>
    </div>
  </header>

  {{if .Error}}<div id="scenarioError" class="banner-error" role="alert">{{.Error}}</div>{{end}}
  {{if .Missing}}<div id="missingInputs" class="banner-warn">Not found in SEC data:{{range .Missing}} <code>{{.}}</code>{{end}}. Display defaults are used; enter values manually.</div>{{end}}

  <div class="grid">
    <section class="card inputs">
      <div class="fields">
        <div>
          <label class="label" for="ticker">Ticker</label>
          <input id="ticker" class="input" value="{{.Ticker}}" />
        </div>
        <div>
          <label class="label" for="currentPrice">Current Share Price</label>
          <input id="currentPrice" class="number-input" inputmode="decimal" placeholder="0.00" value="{{.Inputs.Price}}" />
          <p class="hint">{{.PriceHint}}</p>
        </div>
        <div>
          <label class="label" for="fcf0">Starting Free Cash Flow (FCF₀)</label>
          <input id="fcf0" class="number-input" inputmode="decimal" value="{{.Inputs.FCF0}}" />
          <p class="hint">Derived as CFO − |Capex| from latest FY.</p>
        </div>
        <div>
          <label class="label" for="years">Projection Years (N)</label>
          <input id="years" class="number-input" inputmode="numeric" value="{{.Inputs.Years}}" />
        </div>
        <div>
          <label class="label" for="growth">FCF Growth Rate (annual, %)</label>
          <input id="growth" class="number-input" inputmode="decimal" value="{{.Inputs.Growth}}" />
        </div>
        <div>
          <label class="label" for="terminalGrowth">Terminal Growth (g, %)</label>
          <input id="terminalGrowth" class="number-input" inputmode="decimal" value="{{.Inputs.TerminalGrowth}}" />
          <p class="hint">Conservative long-run growth (≤ GDP).</p>
        </div>
        <div class="wide">
          <label class="label" for="discount"><span>Discount Rate (WACC, %)</span> <span id="discountLabel">{{.Inputs.Discount}}%</span></label>
          <input id="discount" type="range" min="3" max="25" step="0.1" value="{{.Inputs.Discount}}" />
          <div class="bump">
            <input id="discountBox" class="number-input" inputmode="decimal" value="{{.Inputs.Discount}}" />
            <button class="btn-ghost" data-bump="-1">–1%</button>
            <button class="btn-ghost" data-bump="1">+1%</button>
          </div>
        </div>
        <div>
          <label class="label" for="netDebt">Net Debt (Debt – Cash)</label>
          <input id="netDebt" class="number-input" inputmode="decimal" value="{{.Inputs.NetDebt}}" />
        </div>
        <div>
          <label class="label" for="shares">Shares Outstanding</label>
          <input id="shares" class="number-input" inputmode="decimal" value="{{.Inputs.Shares}}" />
        </div>
      </div>
      <div class="actions">
        <button id="calcBtn" class="btn">Calculate</button>
        <button id="downloadBtn" class="btn-ghost">Download Assumptions</button>
        <button id="resetBtn" class="btn-ghost">Reset</button>
      </div>
    </section>

    <section class="card results">
      <h2>Results</h2>
      <div class="kpis">
        <div><div class="hint">Intrinsic Value / Share</div><div id="ivps" class="kpi">{{with .Scenario}}{{.IntrinsicValue}}{{else}}—{{end}}</div></div>
        <div><div class="hint">Upside vs. Current</div><div id="upside" class="kpi{{with .Scenario}} {{.UpsideClass}}{{end}}">{{with .Scenario}}{{.Upside}}{{else}}—{{end}}</div></div>
        <div><div class="hint">Enterprise Value (DCF)</div><div id="ev">{{with .Scenario}}{{.EnterpriseValue}}{{else}}—{{end}}</div></div>
        <div><div class="hint">Equity Value</div><div id="equity">{{with .Scenario}}{{.EquityValue}}{{else}}—{{end}}</div></div>
      </div>
      {{with .Scenario}}<p class="muted" id="breakdown">PV of projected FCF {{.PVCashflows}} · PV of terminal value {{.PVTerminal}}</p>{{end}}
      <div>
        <h3>DCF Sensitivity (Value/Share vs Discount Rate)</h3>
        <canvas id="chart" height="200"></canvas>
        <noscript><div class="server-chart">{{.ChartSVG}}</div></noscript>
      </div>
      <details class="server-chart">
        <summary>Static sensitivity chart (default scenario)</summary>
        <div id="sensitivitySvg">{{.ChartSVG}}</div>
      </details>
      <details id="methodology">
        <summary>Methodology</summary>
        <div class="methodology">{{.Methodology}}</div>
      </details>
      <p class="muted">Sources: <a href="{{.Sources.Submissions}}">submissions</a> · <a href="{{.Sources.CompanyFacts}}">companyfacts</a></p>
    </section>
  </div>

  {{template "footer" .}}
</div>
<script>
  const $ = (id) => document.getElementById(id);
  const fmt = new Intl.NumberFormat(undefined, { maximumFractionDigits: 2 });
  const fmtMoney = (x) => (isFinite(x) ? (x < 0 ? '-' : '') + new Intl.NumberFormat(undefined, { style: 'currency', currency: 'USD', maximumFractionDigits: 0 }).format(Math.abs(x)) : '—');
  const fmtPrice = (x) => (isFinite(x) ? new Intl.NumberFormat(undefined, { style: 'currency', currency: 'USD', maximumFractionDigits: 2 }).format(x) : '—');
  const clamp = (v, min, max) => Math.min(Math.max(v, min), max);

  const sweepMin = {{.SweepMin}};
  const sweepStep = {{.SweepStep}};
  const sweepCount = {{.SweepCount}};
  const initialSweep = {{.Sweep}} || [];
  const defaults = {
    discount: {{.Inputs.Discount}}
  };

  function parseNum(input) {
    if (!input) return NaN;
    const v = parseFloat(String(input).replace(/[,\s]/g, ''));
    return isNaN(v) ? NaN : v;
  }

  function dcf(p) {
    const r = p.discount / 100;
    const g = p.growth / 100;
    const gt = p.terminalGrowth / 100;
    if (r <= gt) return { error: 'Discount rate must exceed terminal growth.' };
    if (!(p.shares > 0)) return { error: 'Shares outstanding must be positive.' };
    let pvCashflows = 0;
    let fcf = p.fcf0;
    for (let t = 1; t <= p.years; t++) {
      fcf = fcf * (1 + g);
      pvCashflows += fcf / Math.pow(1 + r, t);
    }
    const terminalValue = fcf * (1 + gt) / (r - gt);
    const pvTerminal = terminalValue / Math.pow(1 + r, p.years);
    const enterprise = pvCashflows + pvTerminal;
    const equity = enterprise - p.netDebt;
    return { pvCashflows: pvCashflows, pvTerminal: pvTerminal, enterprise: enterprise, equity: equity, ivps: equity / p.shares };
  }

  function readInputs() {
    return {
      fcf0: parseNum($('fcf0').value),
      years: Math.round(parseNum($('years').value)),
      growth: parseNum($('growth').value),
      terminalGrowth: parseNum($('terminalGrowth').value),
      discount: parseNum($('discountBox').value),
      netDebt: parseNum($('netDebt').value),
      shares: parseNum($('shares').value)
    };
  }

  function computeAndRender() {
    const p = readInputs();
    const currentPrice = parseNum($('currentPrice').value);
    if (Object.values(p).some(v => !isFinite(v)) || p.years < 1) {
      alert('Please fill all required numeric fields.');
      return;
    }
    const res = dcf(p);
    if (res.error) { alert(res.error); return; }

    $('ivps').textContent = fmtPrice(res.ivps);
    $('ev').textContent = fmtMoney(res.enterprise);
    $('equity').textContent = fmtMoney(res.equity);
    if (isFinite(currentPrice) && currentPrice > 0) {
      const upside = (res.ivps / currentPrice - 1) * 100;
      $('upside').textContent = (upside >= 0 ? '+' : '') + fmt.format(upside) + '%';
    } else {
      $('upside').textContent = '—';
    }
    const banner = $('scenarioError');
    if (banner) banner.remove();
    updateChart(p);
  }

  function setDiscount(v) {
    $('discountBox').value = v;
    $('discount').value = v;
    $('discountLabel').textContent = parseFloat(v).toFixed(1) + '%';
  }

  $('discount').addEventListener('input', (e) => setDiscount(e.target.value));
  $('discountBox').addEventListener('input', (e) => {
    const v = clamp(parseNum(e.target.value), 0.1, 60);
    $('discount').value = v;
    $('discountLabel').textContent = parseFloat(v).toFixed(1) + '%';
  });
  document.querySelectorAll('[data-bump]').forEach(btn => btn.addEventListener('click', () => {
    const v = clamp(parseNum($('discountBox').value) + parseFloat(btn.dataset.bump), 0.1, 60);
    setDiscount(v.toFixed(1));
  }));

  $('calcBtn').addEventListener('click', computeAndRender);
  $('resetBtn').addEventListener('click', () => {
    document.querySelectorAll('input').forEach(i => { i.value = ''; });
    setDiscount(defaults.discount);
    clearOutputs();
  });
  $('downloadBtn').addEventListener('click', () => {
    const payload = {
      ticker: $('ticker').value || null,
      currentPrice: parseNum($('currentPrice').value) || null,
      fcf0: parseNum($('fcf0').value) || null,
      years: parseNum($('years').value) || null,
      growth: parseNum($('growth').value) || null,
      terminalGrowth: parseNum($('terminalGrowth').value) || null,
      discount: parseNum($('discountBox').value) || null,
      netDebt: parseNum($('netDebt').value) || null,
      shares: parseNum($('shares').value) || null,
      timestamp: new Date().toISOString()
    };
    const blob = new Blob([JSON.stringify(payload, null, 2)], { type: 'application/json' });
    const url = URL.createObjectURL(blob);
    const a = document.createElement('a');
    a.href = url;
    a.download = (payload.ticker || 'dcf') + '_assumptions.json';
    document.body.appendChild(a);
    a.click();
    a.remove();
    URL.revokeObjectURL(url);
  });

  let chart;
  function initChart(labels, values) {
    if (typeof Chart === 'undefined') return;
    const ctx = $('chart').getContext('2d');
    chart = new Chart(ctx, {
      type: 'line',
      data: { labels: labels, datasets: [{ label: 'Intrinsic Value / Share', data: values, tension: 0.25, pointRadius: 0 }] },
      options: {
        responsive: true,
        plugins: { legend: { display: false }, tooltip: { callbacks: { label: (c) => '$' + Number(c.parsed.y).toFixed(2) } } },
        scales: {
          x: { title: { display: true, text: 'Discount Rate (%)' } },
          y: { title: { display: true, text: 'Value / Share (USD)' }, beginAtZero: false }
        }
      }
    });
  }

  function clearOutputs() {
    ['ivps', 'upside', 'ev', 'equity'].forEach(id => { $(id).textContent = '—'; });
    if (chart) chart.destroy();
    initChart([], []);
  }

  function updateChart(p) {
    const xs = [];
    const ys = [];
    for (let i = 0; i < sweepCount; i++) {
      const rate = sweepMin + i * sweepStep;
      const res = dcf(Object.assign({}, p, { discount: rate }));
      if (res.error) continue;
      xs.push(rate.toFixed(2));
      ys.push(res.ivps);
    }
    if (!chart) { initChart(xs, ys); return; }
    chart.data.labels = xs;
    chart.data.datasets[0].data = ys;
    chart.update();
  }

  initChart(initialSweep.map(pt => pt.r), initialSweep.map(pt => pt.v));
</script>
</body>
</html>
`

// DashboardTemplate is the HTML template for the entity index page.
const DashboardTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="{{.Site.StylesheetURL}}" />
  <style>
    .stale { color: #d97706; }
    .muted { color: #6b7280; font-size: 0.85rem; }
  </style>
</head>
<body>
<div class="container">
<header>
  <h1>{{.Title}}</h1>
  <p class="muted">Updated {{.GeneratedAt}}</p>
</header>
<main>
  <table class="table" id="entities">
    <thead><tr><th>Ticker</th><th>Company</th><th>Latest 10-K</th><th>Latest 10-Q</th></tr></thead>
    <tbody>
    {{range .Rows}}<tr>
      <td><a href="{{.Href}}">{{.Ticker}}</a></td>
      <td>{{.CompanyName}}</td>
      <td{{if .Stale}} class="stale" title="Older than 15 months"{{end}}>{{.Latest10K}}</td>
      <td>{{.Latest10Q}}</td>
    </tr>
    {{else}}<tr><td colspan="4" class="muted">No entities.</td></tr>
    {{end}}</tbody>
  </table>
  {{template "footer" .}}
</main>
</div>
</body>
</html>
`
