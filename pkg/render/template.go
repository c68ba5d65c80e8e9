package render

// reportTemplate is the fixed HTML document the renderer fills. Placeholders
// use the [[NAME]] form; anything the report cannot populate is swept into a
// [[MISSING_NAME]] sentinel after generation.
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Organization Intelligence Report - [[ORG_NAME]]</title>
    <style>
        :root {
            --primary-color: #2c3e50;
            --secondary-color: #3498db;
            --success-color: #27ae60;
            --warning-color: #f39c12;
            --danger-color: #e74c3c;
            --light-color: #ecf0f1;
            --border-radius: 8px;
        }
        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            line-height: 1.6;
            margin: 0;
            padding: 20px;
            background-color: #f8f9fa;
            color: #333;
        }
        .container {
            max-width: 1200px;
            margin: 0 auto;
            background: white;
            padding: 40px;
            border-radius: 10px;
            box-shadow: 0 4px 6px rgba(0,0,0,0.1);
        }
        .report-header {
            text-align: center;
            border-bottom: 3px solid var(--primary-color);
            padding-bottom: 20px;
            margin-bottom: 30px;
        }
        .report-meta {
            background: var(--light-color);
            padding: 15px;
            border-radius: var(--border-radius);
            margin: 20px 0;
            border-left: 4px solid var(--secondary-color);
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 15px;
        }
        h2 {
            color: var(--primary-color);
            border-bottom: 2px solid var(--secondary-color);
            padding-bottom: 10px;
            margin-top: 40px;
        }
        h3 {
            color: #34495e;
            border-left: 4px solid var(--secondary-color);
            padding-left: 15px;
        }
        .data-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
            gap: 20px;
            margin: 20px 0;
        }
        .data-card {
            background: var(--light-color);
            padding: 20px;
            border-radius: var(--border-radius);
            border-left: 4px solid var(--secondary-color);
        }
        .financial-metrics { border-left-color: var(--success-color); }
        .risk-warning { border-left-color: var(--danger-color); background: #fdf0ef; }
        .key-insights { border-left-color: var(--warning-color); background: #fef9e7; }
        .citation-link {
            color: var(--secondary-color);
            text-decoration: none;
            font-weight: bold;
            font-size: 0.9em;
            vertical-align: super;
        }
        .references p { font-size: 0.9em; margin: 6px 0; }
    </style>
</head>
<body>
    <div class="container">
        <div class="report-header">
            <h1>Organization Intelligence Report</h1>
            <div class="report-subtitle">[[ORG_NAME]]</div>
        </div>

        <div class="report-meta">
            <div><strong>Project:</strong> [[PROJECT_ID]]</div>
            <div><strong>Date:</strong> [[REPORT_DATE]]</div>
            <div><strong>Industry:</strong> [[INDUSTRY]]</div>
            <div><strong>Headquarters:</strong> [[HEADQUARTERS]]</div>
            <div><strong>Founded:</strong> [[FOUNDED_YEAR]]</div>
            <div><strong>Employees:</strong> [[EMPLOYEE_COUNT]]</div>
        </div>

        <section id="executive-summary">
            <h2>Executive Summary</h2>
            <p>[[ORG_DESCRIPTION]]</p>
            <div class="data-card key-insights">[[KEY_INSIGHTS]]</div>
        </section>

        <section id="company-overview">
            <h2>Company Overview</h2>
            <h3>Products and Services</h3>
            <p>[[KEY_PRODUCTS]]</p>
            <h3>Target Markets</h3>
            <p>[[TARGET_MARKETS]]</p>
            <h3>Geographic Presence</h3>
            <p>[[GEOGRAPHIC_PRESENCE]]</p>
        </section>

        <section id="financial-performance">
            <h2>Financial Performance</h2>
            <div class="data-grid">
                <div class="data-card financial-metrics"><strong>Revenue:</strong> [[REVENUE]]</div>
                <div class="data-card financial-metrics"><strong>Growth:</strong> [[GROWTH_RATE]]</div>
                <div class="data-card financial-metrics"><strong>Funding:</strong> [[FUNDING_HISTORY]]</div>
            </div>
            <p>[[FINANCIAL_PERFORMANCE]]</p>
        </section>

        <section id="leadership">
            <h2>Leadership and Organization</h2>
            <p>[[LEADERSHIP_PROFILE]]</p>
            <h3>Reporting Structure</h3>
            <p>[[REPORTING_STRUCTURE]]</p>
        </section>

        <section id="market-position">
            <h2>Market Position</h2>
            <h3>Primary Competitors</h3>
            <p>[[PRIMARY_COMPETITORS]]</p>
            <h3>Competitive Advantages</h3>
            <p>[[COMPETITIVE_ADVANTAGES]]</p>
            <h3>Market Trends</h3>
            <p>[[MARKET_TRENDS]]</p>
        </section>

        <section id="developments">
            <h2>Recent Developments</h2>
            <p>[[RECENT_DEVELOPMENTS]]</p>
        </section>

        <section id="risk-assessment">
            <h2>Risk Assessment</h2>
            <div class="data-card risk-warning">[[RISK_FACTORS]]</div>
            <p>[[REGULATORY_ENVIRONMENT]]</p>
        </section>

        <section id="sales-intelligence">
            <h2>Sales Intelligence</h2>
            <div class="data-card key-insights">[[SALES_INTELLIGENCE]]</div>
        </section>

        <section id="references" class="references">
            <h2>References</h2>
            [[REFERENCES]]
        </section>
    </div>
</body>
</html>`

// composerInstructions is the system prompt handed to the LLM together with
// the template.
const composerInstructions = `You are an HTML report generator. You are given a fixed HTML template containing bracketed placeholders like [[ORG_NAME]]. Output exactly one artifact: the complete HTML document with every placeholder replaced according to the rules below. No commentary, no extra text.

Rules:
- Do not invent facts. Map only what exists in the provided report and sources.
- Keep all section ids, class names and markup unchanged; only replace placeholders.
- Replace every [[...]] placeholder with concise content extracted from the matching report section. If the content is absent, leave the placeholder as [[MISSING_<NAME>]].
- Preserve inline citation links from the report verbatim.
- Build the [[REFERENCES]] block from the provided citation sources as <p> entries with title, URL and domain. Do not fabricate URLs.
- No scripts, external CSS or images.

HTML template:
` + reportTemplate
